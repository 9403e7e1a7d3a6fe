package dto

import "time"

type AccountSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

type TokenResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Account      AccountSummary `json:"account"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// Identity is what RequireAuth attaches to the request context.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type SessionOutput struct {
	ID               string     `json:"id"`
	OriginIP         string     `json:"origin_ip,omitempty"`
	ClientDescriptor string     `json:"client_descriptor,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
}
