package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/gameshelf/gameshelf"
)

// listGames is open to unauthenticated readers. An optional q parameter
// filters by title or genre.
func (s *Server) listGames(c *fiber.Ctx) error {
	games, err := s.repos.Games().Search(c.Context(), c.Query("q"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": games})
}

func (s *Server) getGame(c *fiber.Ctx) error {
	game, err := s.repos.Games().GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return gameshelf.ErrTargetNotFound(gameshelf.Rule{Verb: "view", Kind: "game"})
		}
		return err
	}

	return c.JSON(fiber.Map{"data": game})
}

func (s *Server) createGame(c *fiber.Ctx) error {
	rule := gameshelf.AdminOnly("create", "game")
	claims := s.session(c)
	target := gameshelf.CollectionTarget()

	if err := gameshelf.AuthorizeRequest(claims, rule, target.ID); err != nil {
		return err
	}

	payload := new(GameRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}
	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	if err := gameshelf.Authorize(claims, rule, target); err != nil {
		return err
	}

	game := &gameshelf.Game{
		ID:          uuid.New(),
		Title:       payload.Title,
		Slug:        gameshelf.Slugify(payload.Title),
		Genre:       payload.Genre,
		Platform:    payload.Platform,
		ReleaseYear: payload.ReleaseYear,
		CoverURL:    payload.CoverURL,
		Description: payload.Description,
	}

	created, err := s.repos.Games().Create(c.Context(), game)
	if err != nil {
		if gameshelf.IsUniqueViolation(err) {
			return gameshelf.ErrGameAlreadyExists
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": created})
}

func (s *Server) updateGame(c *fiber.Ctx) error {
	rule := gameshelf.AdminOnly("update", "game")
	claims := s.session(c)
	id := c.Params("id")

	if err := gameshelf.AuthorizeRequest(claims, rule, id); err != nil {
		return err
	}

	payload := new(GameRequest)
	if err := c.BodyParser(payload); err != nil {
		return malformedBody(err)
	}
	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	game, err := s.repos.Games().GetByID(c.Context(), id)
	target := gameshelf.Target{ID: id, Found: err == nil}
	if err != nil && !repository.IsRecordNotFound(err) {
		return err
	}

	if err := gameshelf.Authorize(claims, rule, target); err != nil {
		return err
	}

	game.Title = payload.Title
	game.Slug = gameshelf.Slugify(payload.Title)
	game.Genre = payload.Genre
	game.Platform = payload.Platform
	game.ReleaseYear = payload.ReleaseYear
	game.CoverURL = payload.CoverURL
	game.Description = payload.Description

	updated, err := s.repos.Games().Update(c.Context(), game, repository.UpdateByID(id))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return gameshelf.ErrTargetNotFound(rule)
		}
		return err
	}

	return c.JSON(fiber.Map{"data": updated})
}

func (s *Server) deleteGame(c *fiber.Ctx) error {
	rule := gameshelf.AdminOnly("delete", "game")
	claims := s.session(c)
	id := c.Params("id")

	if err := gameshelf.AuthorizeRequest(claims, rule, id); err != nil {
		return err
	}

	game, err := s.repos.Games().GetByID(c.Context(), id)
	target := gameshelf.Target{ID: id, Found: err == nil}
	if err != nil && !repository.IsRecordNotFound(err) {
		return err
	}

	if err := gameshelf.Authorize(claims, rule, target); err != nil {
		return err
	}

	if err := s.repos.Games().Remove(c.Context(), game.ID); err != nil {
		if repository.IsRecordNotFound(err) {
			return gameshelf.ErrTargetNotFound(rule)
		}
		return err
	}

	return c.JSON(fiber.Map{"message": "Game deleted."})
}
