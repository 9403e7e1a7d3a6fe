package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/dto"
	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/service"
	autherror "github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/errors"
)

type AuthHandler struct {
	authService  *service.AuthService
	tokenService service.TokenGenerator
}

func NewAuthHandler(authService *service.AuthService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{authService: authService, tokenService: tokenService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	account, err := h.authService.Register(c.Context(), input)
	if err != nil {
		var validationErr *autherror.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Message})
		}
		if errors.Is(err, autherror.ErrEmailAlreadyInUse) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "registration failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	// Capture metadata
	input.IPAddress = clientIP(c)
	input.UserAgent = string(c.Request().Header.UserAgent())

	tokens, err := h.authService.Authenticate(c.Context(), input)
	if err != nil {
		return loginError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

// loginError maps the authenticate taxonomy onto HTTP. Anything outside the
// taxonomy collapses to the generic credentials failure so internals never
// leak through the login surface.
func loginError(c *fiber.Ctx, err error) error {
	var validationErr *autherror.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Message})
	}

	var lockedErr *autherror.AccountLockedError
	if errors.As(err, &lockedErr) {
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"error":             lockedErr.Error(),
			"remaining_minutes": lockedErr.RemainingMinutes,
		})
	}

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": autherror.ErrInvalidCredentials.Error()})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	tokens, err := h.authService.Refresh(c.Context(), input)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

// Logout acknowledges regardless of the token's state; a second logout with
// the same token, or one with garbage, looks the same as the first.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input dto.LogoutInput
	_ = c.BodyParser(&input)

	_ = h.authService.Revoke(c.Context(), input.RefreshToken)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := IdentityFromCtx(c)
	if identity == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": autherror.ErrUnauthorized.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(identity)
}

func (h *AuthHandler) AccountSessions(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}

	sessions, err := h.authService.AccountSessions(c.Context(), int64(accountID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list sessions"})
	}

	return c.Status(fiber.StatusOK).JSON(sessions)
}

func (h *AuthHandler) ForceLogout(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}

	if err := h.authService.ForceLogout(c.Context(), int64(accountID)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to revoke sessions"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "sessions revoked"})
}
