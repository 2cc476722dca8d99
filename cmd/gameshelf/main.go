package main

import (
	"context"
	"database/sql"
	"encoding/base64"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/gameshelf/gameshelf"
	"github.com/gameshelf/gameshelf/server"
	"github.com/gameshelf/gameshelf/social"
	"github.com/gameshelf/gameshelf/social/providers/github"
	"github.com/gameshelf/gameshelf/social/providers/google"
)

func main() {
	logger := gameshelf.DefaultLogger()

	cfg, err := gameshelf.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := gameshelf.RunMigrations(ctx, db, logger); err != nil {
		log.Fatal(err)
	}

	repos := gameshelf.NewRepositoryManager(db)
	repos.MustValidate()

	verifier := gameshelf.NewVerifier(repos.Users()).WithLogger(logger)
	auther := gameshelf.NewAuthenticator(verifier, userAccounts{repos.Users()}, cfg).
		WithLogger(logger)

	opts := []server.Option{server.WithLogger(logger)}

	if oauth := buildSocial(cfg, db, repos, auther, logger); oauth != nil {
		opts = append(opts, server.WithSocialAuthenticator(oauth))
	}

	srv := server.New(cfg, auther, repos, opts...)

	go func() {
		if err := srv.Listen(); err != nil {
			log.Fatal(err)
		}
	}()

	logger.Info("gameshelf listening on %s", cfg.Address)

	waitExitSignal()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error: %v", err)
	}
}

func buildSocial(cfg *gameshelf.AppConfig, db *bun.DB, repos gameshelf.RepositoryManager, auther *gameshelf.Auther, logger gameshelf.Logger) *social.Authenticator {
	if cfg.OAuthStateKey == "" {
		return nil
	}

	stateKey, err := base64.StdEncoding.DecodeString(cfg.OAuthStateKey)
	if err != nil || len(stateKey) < 32 {
		logger.Error("invalid oauth state key, social login disabled")
		return nil
	}

	var opts []social.AuthOption

	if cfg.GithubClientID != "" {
		opts = append(opts, social.WithProvider(github.New(github.Config{
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubClientSecret,
			CallbackURL:  cfg.GithubCallbackURL,
		})))
	}

	if cfg.GoogleClientID != "" {
		opts = append(opts, social.WithProvider(google.New(google.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			CallbackURL:  cfg.GoogleCallbackURL,
		})))
	}

	if len(opts) == 0 {
		return nil
	}

	return social.NewAuthenticator(
		social.NewLinkedAccountRepository(db),
		repos.Users(),
		auther.TokenService(),
		social.AuthConfig{
			StateEncryptionKey:   stateKey[:32],
			StateHMACKey:         stateKey[:32],
			AllowSignup:          true,
			RequireEmailVerified: true,
		},
		opts...,
	)
}

// userAccounts adapts the users repository to the string-keyed account
// reads the claims refresh flow performs.
type userAccounts struct {
	users gameshelf.Users
}

func (a userAccounts) GetByID(ctx context.Context, id string) (*gameshelf.User, error) {
	return a.users.GetByID(ctx, id)
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
