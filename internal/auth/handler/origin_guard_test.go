package handler_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/handler"
	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/pkg/constant"
)

func newGuardApp(entries []string) *fiber.App {
	app := fiber.New()
	app.Use(handler.NewOriginGuard(entries, zap.NewNop()).Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func requestFrom(app *fiber.App, forwardedFor string) (int, error) {
	req := httptest.NewRequest("GET", "/ping", nil)
	if forwardedFor != "" {
		req.Header.Set(constant.HeaderForwardedFor, forwardedFor)
	}
	resp, err := app.Test(req)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode, nil
}

func TestOriginGuard(t *testing.T) {
	t.Run("empty allow-list admits everyone", func(t *testing.T) {
		app := newGuardApp(nil)

		status, err := requestFrom(app, "198.51.100.77")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("cidr range admits members and rejects outsiders", func(t *testing.T) {
		app := newGuardApp([]string{"10.0.0.0/24"})

		status, err := requestFrom(app, "10.0.0.5")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, status)

		status, err = requestFrom(app, "10.0.1.5")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("bare address acts as a single-host range", func(t *testing.T) {
		app := newGuardApp([]string{"203.0.113.9"})

		status, err := requestFrom(app, "203.0.113.9")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, status)

		status, err = requestFrom(app, "203.0.113.10")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("first forwarded-for entry wins", func(t *testing.T) {
		app := newGuardApp([]string{"10.0.0.0/24"})

		// The client hop is first; later proxies in the chain do not count.
		status, err := requestFrom(app, "10.0.0.5, 198.51.100.1")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, status)

		status, err = requestFrom(app, "198.51.100.1, 10.0.0.5")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("real-ip header is consulted after forwarded-for", func(t *testing.T) {
		app := newGuardApp([]string{"10.0.0.0/24"})

		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set(constant.HeaderRealIP, "10.0.0.7")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unparseable client address fails open", func(t *testing.T) {
		app := newGuardApp([]string{"10.0.0.0/24"})

		status, err := requestFrom(app, "not-an-address")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("unparseable allow-list entries are skipped", func(t *testing.T) {
		// The broken entry is dropped; the valid one still enforces.
		app := newGuardApp([]string{"279.0.0.0/8", "10.0.0.0/24"})

		status, err := requestFrom(app, "10.0.0.5")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, status)

		status, err = requestFrom(app, "10.0.1.5")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("only broken entries means no restriction", func(t *testing.T) {
		app := newGuardApp([]string{"garbage", "also/garbage"})

		status, err := requestFrom(app, "198.51.100.77")
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, status)
	})
}
