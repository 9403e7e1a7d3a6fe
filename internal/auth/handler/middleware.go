package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/dto"
	autherror "github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/errors"
)

const (
	bearerPrefix = "Bearer "
	identityKey  = "identity"
)

// IdentityFromCtx returns the identity RequireAuth attached, or nil on an
// unguarded route.
func IdentityFromCtx(c *fiber.Ctx) *dto.Identity {
	identity, _ := c.Locals(identityKey).(*dto.Identity)
	return identity
}

// RequireAuth gates a route on a `Bearer <token>` access token. Validity is
// purely cryptographic and time-based; no store lookup happens here, which
// is why the access-token lifetime is kept short.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return unauthorized(c)
	}

	token := header[len(bearerPrefix):]
	if token == "" {
		return unauthorized(c)
	}

	claims, err := h.tokenService.VerifyAccessToken(token)
	if err != nil {
		return unauthorized(c)
	}

	c.Locals(identityKey, &dto.Identity{
		ID:    claims.AccountID,
		Email: claims.Email,
		Role:  claims.Role,
	})

	return c.Next()
}

// RequireRole must run after RequireAuth.
func (h *AuthHandler) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFromCtx(c)
		if identity == nil {
			return unauthorized(c)
		}
		if identity.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": autherror.ErrUnauthorized.Error()})
}
