package gameshelf

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Comments interface {
	repository.Repository[*Comment]

	ListByGame(ctx context.Context, gameID uuid.UUID) ([]*Comment, error)
	ListAll(ctx context.Context) ([]*Comment, error)
	UpdateBody(ctx context.Context, id uuid.UUID, body string) (*Comment, error)
	Remove(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int, error)
}

type comments struct {
	repository.Repository[*Comment]
	db *bun.DB
}

var _ Comments = (*comments)(nil)

func NewCommentsRepository(db *bun.DB) Comments {
	repo := repository.NewRepository[*Comment](db, repository.ModelHandlers[*Comment]{
		NewRecord: func() *Comment { return &Comment{} },
		GetID: func(c *Comment) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Comment, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &comments{
		Repository: repo,
		db:         db,
	}
}

func (a *comments) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*Comment, error) {
	var records []*Comment
	err := a.db.NewSelect().
		Model(&records).
		Relation("User").
		Where("?TableAlias.game_id = ?", gameID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *comments) ListAll(ctx context.Context) ([]*Comment, error) {
	var records []*Comment
	err := a.db.NewSelect().
		Model(&records).
		Relation("User").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *comments) UpdateBody(ctx context.Context, id uuid.UUID, body string) (*Comment, error) {
	now := time.Now()
	record := &Comment{
		ID:        id,
		Body:      body,
		UpdatedAt: &now,
	}

	return a.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

func (a *comments) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*Comment)(nil)).
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

func (a *comments) CountAll(ctx context.Context) (int, error) {
	return a.db.NewSelect().Model((*Comment)(nil)).Count(ctx)
}
