package gameshelf

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           Role       `bun:"user_role,notnull" json:"user_role,omitempty"`
	DisplayName    string     `bun:"display_name" json:"display_name,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	AvatarURL      string     `bun:"avatar_url" json:"avatar_url,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	Provider       string     `bun:"provider" json:"provider,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// HasPassword reports whether the account can authenticate with
// credentials. OAuth-only accounts carry no hash.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != ""
}

// Game is a catalog entry. Only admins mutate games; there is no
// ownership concept on the catalog.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:gm"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Genre         string     `bun:"genre" json:"genre,omitempty"`
	Platform      string     `bun:"platform" json:"platform,omitempty"`
	ReleaseYear   int        `bun:"release_year" json:"release_year,omitempty"`
	CoverURL      string     `bun:"cover_url" json:"cover_url,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Slugify derives a URL slug from a title
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	lastDash := true
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Comment is a user's note on a game entry. Mutated and deleted only by
// its owner or an admin.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	GameID        uuid.UUID  `bun:"game_id,notnull,type:uuid" json:"game_id,omitempty"`
	Body          string     `bun:"body,notnull" json:"body,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// WishlistEntry marks a game saved by a user, unique per (user, game).
// Only the owner may add or remove entries; admins get no override here.
type WishlistEntry struct {
	bun.BaseModel `bun:"table:wishlist_entries,alias:wle"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	GameID        uuid.UUID  `bun:"game_id,notnull,type:uuid" json:"game_id,omitempty"`
	Game          *Game      `bun:"rel:belongs-to,join:game_id=id" json:"game,omitempty"`
	AddedAt       *time.Time `bun:"added_at,nullzero,default:current_timestamp" json:"added_at,omitempty"`
}
