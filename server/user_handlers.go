package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/gameshelf/gameshelf"
)

// updateProfile lets a signed-in user change their own display name and
// avatar. The stored record changes immediately; the session claims stay
// stale until the client calls the refresh endpoint.
func (s *Server) updateProfile(c *fiber.Ctx) error {
	rule := gameshelf.OwnerOnly("update", "profile")
	claims := s.session(c)

	if claims == nil {
		return gameshelf.ErrAuthenticationRequired(rule)
	}

	payload := new(ProfileRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}
	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return gameshelf.ErrAuthenticationRequired(rule)
	}

	target := gameshelf.Target{ID: claims.UserID(), OwnerID: claims.UserID(), Found: true}
	if err := gameshelf.Authorize(claims, rule, target); err != nil {
		return err
	}

	updated, err := s.repos.Users().UpdateProfile(c.Context(), userID, payload.DisplayName, payload.AvatarURL)
	if err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return gameshelf.ErrTargetNotFound(rule)
		}
		return err
	}

	return c.JSON(fiber.Map{"data": updated})
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	rule := gameshelf.AdminOnly("view", "user list")
	claims := s.session(c)

	if err := gameshelf.Authorize(claims, rule, gameshelf.CollectionTarget()); err != nil {
		return err
	}

	users, err := s.repos.Users().ListAll(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": users})
}

// deleteUser is the admin user-deletion path. An admin may never delete
// their own record through it; the guard refuses the self target before
// the role check can pass it.
func (s *Server) deleteUser(c *fiber.Ctx) error {
	rule := gameshelf.AdminNotSelf("delete", "user")
	claims := s.session(c)
	id := c.Params("id")

	if err := gameshelf.AuthorizeRequest(claims, rule, id); err != nil {
		return err
	}

	user, err := s.repos.Users().GetByID(c.Context(), id)
	target := gameshelf.Target{ID: id, Found: err == nil}
	if err != nil && !repository.IsRecordNotFound(err) && !errors.IsNotFound(err) {
		return err
	}

	if err := gameshelf.Authorize(claims, rule, target); err != nil {
		return err
	}

	if err := s.repos.Users().Remove(c.Context(), user.ID); err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return gameshelf.ErrTargetNotFound(rule)
		}
		return err
	}

	return c.JSON(fiber.Map{"message": "User deleted."})
}

func (s *Server) dashboard(c *fiber.Ctx) error {
	rule := gameshelf.AdminOnly("view", "dashboard")
	claims := s.session(c)

	if err := gameshelf.Authorize(claims, rule, gameshelf.CollectionTarget()); err != nil {
		return err
	}

	ctx := c.Context()

	users, err := s.repos.Users().CountAll(ctx)
	if err != nil {
		return err
	}
	games, err := s.repos.Games().CountAll(ctx)
	if err != nil {
		return err
	}
	comments, err := s.repos.Comments().CountAll(ctx)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"users":    users,
		"games":    games,
		"comments": comments,
	}})
}

func (s *Server) listAllComments(c *fiber.Ctx) error {
	rule := gameshelf.AdminOnly("view", "comment list")
	claims := s.session(c)

	if err := gameshelf.Authorize(claims, rule, gameshelf.CollectionTarget()); err != nil {
		return err
	}

	comments, err := s.repos.Comments().ListAll(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": comments})
}
