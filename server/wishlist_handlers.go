package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/gameshelf/gameshelf"
)

func (s *Server) listWishlist(c *fiber.Ctx) error {
	rule := gameshelf.AnyUser("view", "wishlist")
	claims := s.session(c)

	if err := gameshelf.Authorize(claims, rule, gameshelf.CollectionTarget()); err != nil {
		return err
	}

	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return gameshelf.ErrAuthenticationRequired(rule)
	}

	entries, err := s.repos.Wishlist().ListByUser(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": entries})
}

// addToWishlist inserts the (user, game) pair and relies on the unique
// constraint for duplicate prevention. A second add for the same game
// surfaces as 409, never a silent upsert.
func (s *Server) addToWishlist(c *fiber.Ctx) error {
	rule := gameshelf.AnyUser("wishlist", "game")
	claims := s.session(c)
	rawGameID := c.Params("gameID")

	if err := gameshelf.AuthorizeRequest(claims, rule, rawGameID); err != nil {
		return err
	}

	target := gameshelf.Target{ID: rawGameID}
	gameID, err := uuid.Parse(rawGameID)
	if err == nil {
		if _, err := s.repos.Games().GetByID(c.Context(), rawGameID); err == nil {
			target.Found = true
		} else if !repository.IsRecordNotFound(err) {
			return err
		}
	}

	if err := gameshelf.Authorize(claims, rule, target); err != nil {
		return err
	}

	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return gameshelf.ErrAuthenticationRequired(rule)
	}

	entry, err := s.repos.Wishlist().Add(c.Context(), userID, gameID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": entry})
}

// removeFromWishlist deletes the caller's own entry. There is no admin
// override on wishlists.
func (s *Server) removeFromWishlist(c *fiber.Ctx) error {
	rule := gameshelf.OwnerOnly("remove", "wishlist entry")
	claims := s.session(c)
	rawGameID := c.Params("gameID")

	if err := gameshelf.AuthorizeRequest(claims, rule, rawGameID); err != nil {
		return err
	}

	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return gameshelf.ErrAuthenticationRequired(rule)
	}

	target := gameshelf.Target{ID: rawGameID}
	gameID, parseErr := uuid.Parse(rawGameID)
	if parseErr == nil {
		entry, err := s.repos.Wishlist().Get(c.Context(), userID, gameID)
		if err == nil {
			target.Found = true
			target.OwnerID = entry.UserID.String()
		} else if !errors.IsNotFound(err) && !repository.IsRecordNotFound(err) {
			return err
		}
	}

	if err := gameshelf.Authorize(claims, rule, target); err != nil {
		return err
	}

	if err := s.repos.Wishlist().Remove(c.Context(), userID, gameID); err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return gameshelf.ErrTargetNotFound(rule)
		}
		return err
	}

	return c.JSON(fiber.Map{"message": "Removed from wishlist."})
}
