package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gameshelf/gameshelf"
)

func (s *Server) register(c *fiber.Ctx) error {
	payload := new(RegisterRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	handler := &gameshelf.RegisterUserHandler{Repo: s.repos}
	user, err := handler.Execute(c.Context(), gameshelf.RegisterUserMessage{
		DisplayName: payload.DisplayName,
		Email:       payload.Email,
		Password:    payload.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": user})
}

func (s *Server) login(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	token, err := s.auther.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	s.setSessionCookie(c, token)

	return c.JSON(fiber.Map{"token": token})
}

func (s *Server) logout(c *fiber.Ctx) error {
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out."})
}

// refreshSession re-reads the account behind the current token and
// re-signs the claims with current name/email/image/role. This is the
// only path that heals a stale session after a profile or role change.
func (s *Server) refreshSession(c *fiber.Ctx) error {
	rule := gameshelf.AnyUser("refresh", "session")

	raw := s.extractToken(c)
	if raw == "" {
		return gameshelf.ErrAuthenticationRequired(rule)
	}

	token, err := s.auther.RefreshToken(c.Context(), raw)
	if err != nil {
		return err
	}

	s.setSessionCookie(c, token)

	return c.JSON(fiber.Map{"token": token})
}

func (s *Server) currentSession(c *fiber.Ctx) error {
	claims := s.session(c)
	if claims == nil {
		return gameshelf.ErrAuthenticationRequired(gameshelf.AnyUser("view", "session"))
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":       claims.UserID(),
		"name":     claims.Name,
		"email":    claims.Email,
		"image":    claims.Image,
		"role":     claims.Role(),
		"provider": claims.Provider,
		"expires":  claims.Expires(),
	}})
}
