package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/pkg/constant"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	app.Post("/api/v1/refresh", h.Refresh)
	app.Delete("/api/v1/session", h.Logout)

	app.Get("/api/v1/me", h.RequireAuth, h.Me)

	// Admin-only endpoints
	admin := app.Group("/api/v1/admin", h.RequireAuth, h.RequireRole(constant.RoleAdmin))
	admin.Get("/accounts/:id/sessions", h.AccountSessions)
	admin.Delete("/accounts/:id/sessions", h.ForceLogout)
}
