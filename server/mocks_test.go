package server_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/gameshelf/gameshelf"
	"github.com/gameshelf/gameshelf/server"
)

type mockUsers struct {
	gameshelf.Users
	mock.Mock
}

func (m *mockUsers) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*gameshelf.User, error) {
	args := m.Called(ctx, id)
	var user *gameshelf.User
	if v := args.Get(0); v != nil {
		user = v.(*gameshelf.User)
	}
	return user, args.Error(1)
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*gameshelf.User, error) {
	args := m.Called(ctx, email)
	var user *gameshelf.User
	if v := args.Get(0); v != nil {
		user = v.(*gameshelf.User)
	}
	return user, args.Error(1)
}

func (m *mockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *gameshelf.User) (*gameshelf.User, error) {
	args := m.Called(ctx, user)
	var created *gameshelf.User
	if v := args.Get(0); v != nil {
		created = v.(*gameshelf.User)
	}
	return created, args.Error(1)
}

func (m *mockUsers) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, avatarURL string) (*gameshelf.User, error) {
	args := m.Called(ctx, id, displayName, avatarURL)
	var user *gameshelf.User
	if v := args.Get(0); v != nil {
		user = v.(*gameshelf.User)
	}
	return user, args.Error(1)
}

func (m *mockUsers) ListAll(ctx context.Context) ([]*gameshelf.User, error) {
	args := m.Called(ctx)
	var users []*gameshelf.User
	if v := args.Get(0); v != nil {
		users = v.([]*gameshelf.User)
	}
	return users, args.Error(1)
}

func (m *mockUsers) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUsers) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockGames struct {
	gameshelf.Games
	mock.Mock
}

func (m *mockGames) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*gameshelf.Game, error) {
	args := m.Called(ctx, id)
	var game *gameshelf.Game
	if v := args.Get(0); v != nil {
		game = v.(*gameshelf.Game)
	}
	return game, args.Error(1)
}

func (m *mockGames) Search(ctx context.Context, search string) ([]*gameshelf.Game, error) {
	args := m.Called(ctx, search)
	var games []*gameshelf.Game
	if v := args.Get(0); v != nil {
		games = v.([]*gameshelf.Game)
	}
	return games, args.Error(1)
}

func (m *mockGames) Create(ctx context.Context, record *gameshelf.Game, criteria ...repository.InsertCriteria) (*gameshelf.Game, error) {
	args := m.Called(ctx, record)
	var game *gameshelf.Game
	if v := args.Get(0); v != nil {
		game = v.(*gameshelf.Game)
	}
	return game, args.Error(1)
}

func (m *mockGames) Update(ctx context.Context, record *gameshelf.Game, criteria ...repository.UpdateCriteria) (*gameshelf.Game, error) {
	args := m.Called(ctx, record)
	var game *gameshelf.Game
	if v := args.Get(0); v != nil {
		game = v.(*gameshelf.Game)
	}
	return game, args.Error(1)
}

func (m *mockGames) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockGames) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockComments struct {
	gameshelf.Comments
	mock.Mock
}

func (m *mockComments) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*gameshelf.Comment, error) {
	args := m.Called(ctx, id)
	var comment *gameshelf.Comment
	if v := args.Get(0); v != nil {
		comment = v.(*gameshelf.Comment)
	}
	return comment, args.Error(1)
}

func (m *mockComments) Create(ctx context.Context, record *gameshelf.Comment, criteria ...repository.InsertCriteria) (*gameshelf.Comment, error) {
	args := m.Called(ctx, record)
	var comment *gameshelf.Comment
	if v := args.Get(0); v != nil {
		comment = v.(*gameshelf.Comment)
	}
	return comment, args.Error(1)
}

func (m *mockComments) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*gameshelf.Comment, error) {
	args := m.Called(ctx, gameID)
	var comments []*gameshelf.Comment
	if v := args.Get(0); v != nil {
		comments = v.([]*gameshelf.Comment)
	}
	return comments, args.Error(1)
}

func (m *mockComments) ListAll(ctx context.Context) ([]*gameshelf.Comment, error) {
	args := m.Called(ctx)
	var comments []*gameshelf.Comment
	if v := args.Get(0); v != nil {
		comments = v.([]*gameshelf.Comment)
	}
	return comments, args.Error(1)
}

func (m *mockComments) UpdateBody(ctx context.Context, id uuid.UUID, body string) (*gameshelf.Comment, error) {
	args := m.Called(ctx, id, body)
	var comment *gameshelf.Comment
	if v := args.Get(0); v != nil {
		comment = v.(*gameshelf.Comment)
	}
	return comment, args.Error(1)
}

func (m *mockComments) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockComments) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockWishlist struct {
	mock.Mock
}

func (m *mockWishlist) Add(ctx context.Context, userID, gameID uuid.UUID) (*gameshelf.WishlistEntry, error) {
	args := m.Called(ctx, userID, gameID)
	var entry *gameshelf.WishlistEntry
	if v := args.Get(0); v != nil {
		entry = v.(*gameshelf.WishlistEntry)
	}
	return entry, args.Error(1)
}

func (m *mockWishlist) Remove(ctx context.Context, userID, gameID uuid.UUID) error {
	args := m.Called(ctx, userID, gameID)
	return args.Error(0)
}

func (m *mockWishlist) Get(ctx context.Context, userID, gameID uuid.UUID) (*gameshelf.WishlistEntry, error) {
	args := m.Called(ctx, userID, gameID)
	var entry *gameshelf.WishlistEntry
	if v := args.Get(0); v != nil {
		entry = v.(*gameshelf.WishlistEntry)
	}
	return entry, args.Error(1)
}

func (m *mockWishlist) ListByUser(ctx context.Context, userID uuid.UUID) ([]*gameshelf.WishlistEntry, error) {
	args := m.Called(ctx, userID)
	var entries []*gameshelf.WishlistEntry
	if v := args.Get(0); v != nil {
		entries = v.([]*gameshelf.WishlistEntry)
	}
	return entries, args.Error(1)
}

type mockRepos struct {
	users    *mockUsers
	games    *mockGames
	comments *mockComments
	wishlist *mockWishlist
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		users:    &mockUsers{},
		games:    &mockGames{},
		comments: &mockComments{},
		wishlist: &mockWishlist{},
	}
}

func (m *mockRepos) Validate() error { return nil }
func (m *mockRepos) MustValidate()   {}

func (m *mockRepos) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(context.Context, bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *mockRepos) Users() gameshelf.Users       { return m.users }
func (m *mockRepos) Games() gameshelf.Games       { return m.games }
func (m *mockRepos) Comments() gameshelf.Comments { return m.comments }
func (m *mockRepos) Wishlist() gameshelf.Wishlist { return m.wishlist }

type testIdentity struct {
	id    string
	name  string
	email string
	image string
	role  string
}

func (i testIdentity) ID() string    { return i.id }
func (i testIdentity) Name() string  { return i.name }
func (i testIdentity) Email() string { return i.email }
func (i testIdentity) Image() string { return i.image }
func (i testIdentity) Role() string  { return i.role }

type stubVerifier struct {
	identity gameshelf.Identity
	err      error
}

func (s stubVerifier) Verify(ctx context.Context, email, password string) (gameshelf.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

type accountSource struct {
	users gameshelf.Users
}

func (a accountSource) GetByID(ctx context.Context, id string) (*gameshelf.User, error) {
	return a.users.GetByID(ctx, id)
}

func testServerConfig() *gameshelf.AppConfig {
	return &gameshelf.AppConfig{
		Address:         ":0",
		SigningKey:      "test-signing-key",
		TokenExpiration: 1,
		Issuer:          "gameshelf-test",
		Audience:        []string{"gameshelf"},
		ContextKey:      "session",
		CookieName:      "gameshelf_session",
	}
}

func newTestServer(t *testing.T, verifier gameshelf.CredentialVerifier) (*fiber.App, *mockRepos, *gameshelf.AppConfig) {
	t.Helper()

	cfg := testServerConfig()
	repos := newMockRepos()

	if verifier == nil {
		verifier = stubVerifier{}
	}

	auther := gameshelf.NewAuthenticator(verifier, accountSource{repos.users}, cfg)
	srv := server.New(cfg, auther, repos)

	return srv.App(), repos, cfg
}

func signToken(t *testing.T, cfg *gameshelf.AppConfig, id string, role gameshelf.Role) string {
	t.Helper()

	tokens := gameshelf.NewTokenService(
		[]byte(cfg.SigningKey),
		cfg.TokenExpiration,
		cfg.Issuer,
		jwt.ClaimStrings(cfg.Audience),
		nil,
	)

	token, err := tokens.Generate(testIdentity{
		id:    id,
		name:  "Test User",
		email: "test@example.com",
		role:  string(role),
	}, "")
	require.NoError(t, err)

	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))

	return out
}
