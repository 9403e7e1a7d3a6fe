package constant

// Account roles. Role is a closed enumeration; anything else in a token is
// treated as unprivileged.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	// DefaultRole is stamped into claims whenever no role is present upstream.
	DefaultRole = RoleUser
)

// Proxy headers consulted when resolving the caller address, in priority order.
const (
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderRealIP       = "X-Real-IP"
)
