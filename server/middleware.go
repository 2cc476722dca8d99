package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gameshelf/gameshelf"
)

// sessionMiddleware resolves the session claims for the request, when a
// token is present, and stores them in the request locals. It never
// rejects: anonymous and invalid-token requests proceed without claims
// and the authorization guard decides per endpoint.
func (s *Server) sessionMiddleware(c *fiber.Ctx) error {
	raw := s.extractToken(c)
	if raw == "" {
		return c.Next()
	}

	claims, err := s.auther.SessionFromToken(raw)
	if err != nil {
		s.logger.Debug("session token rejected: %v", err)
		return c.Next()
	}

	c.Locals(s.cfg.ContextKey, claims)
	return c.Next()
}

func (s *Server) extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(s.cfg.CookieName); cookie != "" {
		return cookie
	}

	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	return ""
}

// session returns the claims stored by the middleware, or nil for
// anonymous requests.
func (s *Server) session(c *fiber.Ctx) *gameshelf.SessionClaims {
	claims, _ := c.Locals(s.cfg.ContextKey).(*gameshelf.SessionClaims)
	return claims
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(s.cfg.TokenExpiration) * time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
