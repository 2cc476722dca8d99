package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

func (s *Server) oauthStart(c *fiber.Ctx) error {
	provider := c.Params("provider")

	redirect, err := s.oauth.BeginAuth(c.Context(), provider)
	if err != nil {
		return err
	}

	return c.Redirect(redirect.URL, fiber.StatusFound)
}

func (s *Server) oauthCallback(c *fiber.Ctx) error {
	provider := c.Params("provider")
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		return errors.New("missing code or state parameter", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest).
			WithTextCode("oauth_missing_params")
	}

	result, err := s.oauth.CompleteAuth(c.Context(), provider, code, state)
	if err != nil {
		return err
	}

	s.setSessionCookie(c, result.Token)

	target := result.RedirectURL
	if target == "" {
		target = "/"
	}

	return c.Redirect(target, fiber.StatusSeeOther)
}
