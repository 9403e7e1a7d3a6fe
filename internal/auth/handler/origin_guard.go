package handler

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/pkg/constant"
)

// OriginGuard admits requests only from a configured set of source
// addresses. It is a secondary control layered in front of authentication:
// an empty allow-list admits everyone, and internal failures admit rather
// than reject, so a configuration mishap can never lock out all traffic.
type OriginGuard struct {
	allowed []*net.IPNet
	logger  *zap.Logger
}

// NewOriginGuard parses the configured allow-list. Entries may be bare IPs
// or CIDR ranges; unparseable entries are skipped with a warning.
func NewOriginGuard(entries []string, logger *zap.Logger) *OriginGuard {
	g := &OriginGuard{logger: logger}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		// A bare address is treated as a single-host range.
		if !strings.Contains(entry, "/") {
			if strings.Contains(entry, ":") {
				entry += "/128"
			} else {
				entry += "/32"
			}
		}

		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			logger.Warn("skipping unparseable allow-list entry",
				zap.String("entry", entry), zap.Error(err))
			continue
		}
		g.allowed = append(g.allowed, network)
	}

	return g
}

func (g *OriginGuard) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(g.allowed) == 0 {
			return c.Next()
		}

		addr := clientIP(c)
		ip := net.ParseIP(addr)
		if ip == nil {
			// Fail open: availability wins over this control.
			g.logger.Warn("origin guard could not parse client address", zap.String("addr", addr))
			return c.Next()
		}

		for _, network := range g.allowed {
			if network.Contains(ip) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "origin not allowed"})
	}
}

// clientIP resolves the caller address: first X-Forwarded-For entry, then
// X-Real-IP, then the transport peer.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get(constant.HeaderForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if real := c.Get(constant.HeaderRealIP); real != "" {
		return real
	}

	return c.IP()
}
