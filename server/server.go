package server

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/gameshelf/gameshelf"
	"github.com/gameshelf/gameshelf/social"
)

// Server is the HTTP surface of the application. Handlers are thin
// compositions: parse input, run the authorization guard with the
// endpoint's rule, perform one data operation, map the outcome.
type Server struct {
	app    *fiber.App
	cfg    *gameshelf.AppConfig
	auther *gameshelf.Auther
	repos  gameshelf.RepositoryManager
	oauth  *social.Authenticator
	logger gameshelf.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger gameshelf.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSocialAuthenticator enables the OAuth login routes.
func WithSocialAuthenticator(oauth *social.Authenticator) Option {
	return func(s *Server) {
		s.oauth = oauth
	}
}

// New builds the server and registers all routes.
func New(cfg *gameshelf.AppConfig, auther *gameshelf.Auther, repos gameshelf.RepositoryManager, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		auther: auther,
		repos:  repos,
		logger: gameshelf.DefaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "gameshelf",
		ErrorHandler: s.errorHandler,
	})

	s.routes()

	return s
}

// App exposes the underlying fiber app, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP on the configured address.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address)
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	s.app.Use(s.sessionMiddleware)

	auth := s.app.Group("/auth")
	auth.Post("/register", s.register)
	auth.Post("/login", s.login)
	auth.Post("/logout", s.logout)
	auth.Post("/refresh", s.refreshSession)
	auth.Get("/session", s.currentSession)

	if s.oauth != nil {
		auth.Get("/:provider/start", s.oauthStart)
		auth.Get("/:provider/callback", s.oauthCallback)
	}

	s.app.Get("/games", s.listGames)
	s.app.Get("/games/:id", s.getGame)
	s.app.Post("/games", s.createGame)
	s.app.Patch("/games/:id", s.updateGame)
	s.app.Delete("/games/:id", s.deleteGame)

	s.app.Get("/games/:id/comments", s.listComments)
	s.app.Post("/games/:id/comments", s.createComment)
	s.app.Patch("/comments/:id", s.updateComment)
	s.app.Delete("/comments/:id", s.deleteComment)

	s.app.Get("/wishlist", s.listWishlist)
	s.app.Post("/wishlist/:gameID", s.addToWishlist)
	s.app.Delete("/wishlist/:gameID", s.removeFromWishlist)

	s.app.Patch("/profile", s.updateProfile)

	s.app.Get("/users", s.listUsers)
	s.app.Delete("/users/:id", s.deleteUser)

	admin := s.app.Group("/admin")
	admin.Get("/dashboard", s.dashboard)
	admin.Get("/comments", s.listAllComments)
}
