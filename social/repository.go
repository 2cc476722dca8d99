package social

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LinkedAccount ties a provider identity to a local user.
type LinkedAccount struct {
	bun.BaseModel `bun:"table:linked_accounts,alias:lac"`

	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID         uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Provider       string     `bun:"provider,notnull" json:"provider,omitempty"`
	ProviderUserID string     `bun:"provider_user_id,notnull" json:"provider_user_id,omitempty"`
	Email          string     `bun:"email" json:"email,omitempty"`
	Name           string     `bun:"name" json:"name,omitempty"`
	AvatarURL      string     `bun:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// LinkedAccountRepository stores provider links.
type LinkedAccountRepository interface {
	FindByProviderID(ctx context.Context, provider, providerUserID string) (*LinkedAccount, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*LinkedAccount, error)
	Upsert(ctx context.Context, account *LinkedAccount) error
	DeleteByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) error
}

type linkedAccounts struct {
	db *bun.DB
}

var _ LinkedAccountRepository = (*linkedAccounts)(nil)

// NewLinkedAccountRepository creates a bun-backed repository.
func NewLinkedAccountRepository(db *bun.DB) LinkedAccountRepository {
	return &linkedAccounts{db: db}
}

func (r *linkedAccounts) FindByProviderID(ctx context.Context, provider, providerUserID string) (*LinkedAccount, error) {
	record := &LinkedAccount{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.provider = ? AND ?TableAlias.provider_user_id = ?", provider, providerUserID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *linkedAccounts) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*LinkedAccount, error) {
	var records []*LinkedAccount
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *linkedAccounts) Upsert(ctx context.Context, account *LinkedAccount) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now()
	account.UpdatedAt = &now

	_, err := r.db.NewInsert().
		Model(account).
		On("CONFLICT (provider, provider_user_id) DO UPDATE").
		Set("user_id = EXCLUDED.user_id").
		Set("email = EXCLUDED.email").
		Set("name = EXCLUDED.name").
		Set("avatar_url = EXCLUDED.avatar_url").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)

	return err
}

func (r *linkedAccounts) DeleteByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) error {
	_, err := r.db.NewDelete().
		Model((*LinkedAccount)(nil)).
		Where("?TableAlias.user_id = ? AND ?TableAlias.provider = ?", userID, provider).
		Exec(ctx)
	return err
}
