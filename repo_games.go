package gameshelf

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Games interface {
	repository.Repository[*Game]

	Search(ctx context.Context, search string) ([]*Game, error)
	GetBySlug(ctx context.Context, slug string) (*Game, error)
	Remove(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int, error)
}

type games struct {
	repository.Repository[*Game]
	db *bun.DB
}

var _ Games = (*games)(nil)

func NewGamesRepository(db *bun.DB) Games {
	repo := repository.NewRepository[*Game](db, repository.ModelHandlers[*Game]{
		NewRecord: func() *Game { return &Game{} },
		GetID: func(g *Game) uuid.UUID {
			if g == nil {
				return uuid.Nil
			}
			return g.ID
		},
		SetID: func(g *Game, id uuid.UUID) {
			if g != nil {
				g.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &games{
		Repository: repo,
		db:         db,
	}
}

func (a *games) Search(ctx context.Context, search string) ([]*Game, error) {
	var records []*Game
	q := a.db.NewSelect().Model(&records)

	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(?TableAlias.title) LIKE ? OR LOWER(?TableAlias.genre) LIKE ?", pattern, pattern)
	}

	if err := q.Order("title ASC").Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (a *games) GetBySlug(ctx context.Context, slug string) (*Game, error) {
	record := &Game{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.slug = ?", slug).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows || repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"slug": slug})
		}
		return nil, err
	}

	return record, nil
}

func (a *games) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*Game)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}

func (a *games) CountAll(ctx context.Context) (int, error) {
	return a.db.NewSelect().Model((*Game)(nil)).Count(ctx)
}
