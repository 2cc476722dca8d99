package gameshelf

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Users() Users
	Games() Games
	Comments() Comments
	Wishlist() Wishlist
}

type mngr struct {
	db       *bun.DB
	users    Users
	games    Games
	comments Comments
	wishlist Wishlist
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:       db,
		users:    NewUsersRepository(db),
		games:    NewGamesRepository(db),
		comments: NewCommentsRepository(db),
		wishlist: NewWishlistRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.games == nil {
		return errors.New("repository games should be initialized")
	}

	if m.comments == nil {
		return errors.New("repository comments should be initialized")
	}

	if m.wishlist == nil {
		return errors.New("repository wishlist should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Games() Games {
	return m.games
}

func (m mngr) Comments() Comments {
	return m.comments
}

func (m mngr) Wishlist() Wishlist {
	return m.wishlist
}

// IsUniqueViolation reports whether the data layer rejected a write for
// violating a unique constraint. Matches both the sqlite and postgres
// driver message shapes.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
