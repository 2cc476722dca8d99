package gameshelf

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrWishlistDuplicate is returned when adding a (user, game) pair that
// already exists. Duplicate adds are rejected, never upserted.
var ErrWishlistDuplicate = errors.New("Game already in wishlist", errors.CategoryConflict).
	WithTextCode("wishlist_duplicate").
	WithCode(errors.CodeConflict)

type Wishlist interface {
	Add(ctx context.Context, userID, gameID uuid.UUID) (*WishlistEntry, error)
	Remove(ctx context.Context, userID, gameID uuid.UUID) error
	Get(ctx context.Context, userID, gameID uuid.UUID) (*WishlistEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*WishlistEntry, error)
}

type wishlist struct {
	db *bun.DB
}

var _ Wishlist = (*wishlist)(nil)

func NewWishlistRepository(db *bun.DB) Wishlist {
	return &wishlist{db: db}
}

// Add inserts the entry, relying on the unique (user_id, game_id)
// constraint to reject duplicates.
func (a *wishlist) Add(ctx context.Context, userID, gameID uuid.UUID) (*WishlistEntry, error) {
	record := &WishlistEntry{
		ID:     uuid.New(),
		UserID: userID,
		GameID: gameID,
	}

	if _, err := a.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrWishlistDuplicate
		}
		return nil, err
	}

	return record, nil
}

func (a *wishlist) Remove(ctx context.Context, userID, gameID uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*WishlistEntry)(nil)).
		Where("?TableAlias.user_id = ? AND ?TableAlias.game_id = ?", userID, gameID).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"user_id": userID.String(),
				"game_id": gameID.String(),
			})
	}

	return nil
}

func (a *wishlist) Get(ctx context.Context, userID, gameID uuid.UUID) (*WishlistEntry, error) {
	record := &WishlistEntry{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ? AND ?TableAlias.game_id = ?", userID, gameID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows || repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"user_id": userID.String(),
					"game_id": gameID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *wishlist) ListByUser(ctx context.Context, userID uuid.UUID) ([]*WishlistEntry, error) {
	var records []*WishlistEntry
	err := a.db.NewSelect().
		Model(&records).
		Relation("Game").
		Where("?TableAlias.user_id = ?", userID).
		Order("added_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
