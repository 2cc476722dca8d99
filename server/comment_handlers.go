package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/gameshelf/gameshelf"
)

// listComments is open to unauthenticated readers.
func (s *Server) listComments(c *fiber.Ctx) error {
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return gameshelf.ErrTargetNotFound(gameshelf.Rule{Verb: "view", Kind: "game"})
	}

	comments, err := s.repos.Comments().ListByGame(c.Context(), gameID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": comments})
}

func (s *Server) createComment(c *fiber.Ctx) error {
	rule := gameshelf.AnyUser("comment on", "game")
	claims := s.session(c)
	rawGameID := c.Params("id")

	if err := gameshelf.AuthorizeRequest(claims, rule, rawGameID); err != nil {
		return err
	}

	payload := new(CommentRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}
	if err := payload.Validate(); err != nil {
		return invalidInput(err)
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

	comment := &gameshelf.Comment{
		ID:     uuid.New(),
		UserID: userID,
		GameID: gameID,
		Body:   strings.TrimSpace(payload.Content),
	}

	created, err := s.repos.Comments().Create(c.Context(), comment)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": created})
}

func (s *Server) updateComment(c *fiber.Ctx) error {
	rule := gameshelf.OwnerOrAdmin("update", "comment")
	claims := s.session(c)
	id := c.Params("id")

	if err := gameshelf.AuthorizeRequest(claims, rule, id); err != nil {
		return err
	}

	payload := new(CommentRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}
	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	comment, err := s.repos.Comments().GetByID(c.Context(), id)
	target := gameshelf.Target{ID: id, Found: err == nil}
	if err == nil {
		target.OwnerID = comment.UserID.String()
	} else if !repository.IsRecordNotFound(err) {
		return err
	}

	if err := gameshelf.Authorize(claims, rule, target); err != nil {
		return err
	}

	updated, err := s.repos.Comments().UpdateBody(c.Context(), comment.ID, strings.TrimSpace(payload.Content))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return gameshelf.ErrTargetNotFound(rule)
		}
		return err
	}

	return c.JSON(fiber.Map{"data": updated})
}

func (s *Server) deleteComment(c *fiber.Ctx) error {
	rule := gameshelf.OwnerOrAdmin("delete", "comment")
	claims := s.session(c)
	id := c.Params("id")

	if err := gameshelf.AuthorizeRequest(claims, rule, id); err != nil {
		return err
	}

	comment, err := s.repos.Comments().GetByID(c.Context(), id)
	target := gameshelf.Target{ID: id, Found: err == nil}
	if err == nil {
		target.OwnerID = comment.UserID.String()
	} else if !repository.IsRecordNotFound(err) {
		return err
	}

	if err := gameshelf.Authorize(claims, rule, target); err != nil {
		return err
	}

	if err := s.repos.Comments().Remove(c.Context(), comment.ID); err != nil {
		if repository.IsRecordNotFound(err) {
			return gameshelf.ErrTargetNotFound(rule)
		}
		return err
	}

	return c.JSON(fiber.Map{"message": "Comment deleted."})
}
