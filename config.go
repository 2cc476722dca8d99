package gameshelf

import (
	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// AppConfig is parsed from the environment
type AppConfig struct {
	Address     string `env:"GAMESHELF_ADDR" envDefault:":8080"`
	DatabaseDSN string `env:"GAMESHELF_DSN" envDefault:"file:gameshelf.db?_pragma=foreign_keys(1)"`

	SigningKey      string   `env:"GAMESHELF_SIGNING_KEY,required"`
	TokenExpiration int      `env:"GAMESHELF_TOKEN_HOURS" envDefault:"72"`
	Issuer          string   `env:"GAMESHELF_ISSUER" envDefault:"gameshelf"`
	Audience        []string `env:"GAMESHELF_AUDIENCE" envSeparator:","`
	ContextKey      string   `env:"GAMESHELF_CONTEXT_KEY" envDefault:"session"`
	CookieName      string   `env:"GAMESHELF_COOKIE_NAME" envDefault:"gameshelf_session"`

	GithubClientID     string `env:"GAMESHELF_GITHUB_CLIENT_ID"`
	GithubClientSecret string `env:"GAMESHELF_GITHUB_CLIENT_SECRET"`
	GithubCallbackURL  string `env:"GAMESHELF_GITHUB_CALLBACK_URL"`

	GoogleClientID     string `env:"GAMESHELF_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GAMESHELF_GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `env:"GAMESHELF_GOOGLE_CALLBACK_URL"`

	// OAuthStateKey encrypts and signs the OAuth state parameter; must be
	// 32 bytes once decoded
	OAuthStateKey string `env:"GAMESHELF_OAUTH_STATE_KEY"`
}

// LoadConfig parses the process environment
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to parse configuration from environment")
	}
	return cfg, nil
}

func (c *AppConfig) GetSigningKey() string   { return c.SigningKey }
func (c *AppConfig) GetContextKey() string   { return c.ContextKey }
func (c *AppConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c *AppConfig) GetIssuer() string       { return c.Issuer }
func (c *AppConfig) GetAudience() []string   { return c.Audience }

var _ Config = (*AppConfig)(nil)
