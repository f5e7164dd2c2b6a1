package server

import (
	"context"
	"net/http"

	"blog/auth"
	"blog/config"
	"blog/logging"
	"blog/post"
)

type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

func NewServer(cfg *config.Config, store post.Store, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      NewHandler(cfg, store, logger),
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// NewHandler builds the routed, logged handler the server serves.
func NewHandler(cfg *config.Config, store post.Store, logger logging.Logger) http.Handler {
	posts := post.NewController(store, logger)
	secret := []byte(cfg.JWTSecret)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthCheck(logger))
	mux.HandleFunc("OPTIONS /", disableCORS(func(w http.ResponseWriter, r *http.Request) {}))

	mux.HandleFunc("POST /login", disableCORS(auth.LoginHandler(auth.Credentials{
		Email:        cfg.AdminUser,
		PasswordHash: cfg.AdminPasswordHash,
		Secret:       secret,
		TokenTTL:     cfg.TokenTTL,
	}, logger)))

	mux.HandleFunc("POST /posts", disableCORS(auth.JwtMiddleware(secret, logger, posts.Create)))
	mux.HandleFunc("PUT /posts/{"+post.IDParam+"}", disableCORS(auth.JwtMiddleware(secret, logger, posts.Update)))
	mux.HandleFunc("GET /posts/{"+post.IDParam+"}", disableCORS(posts.FindPost))

	return loggingMiddleware(logger, mux)
}

func (s *Server) Start() error {
	s.logger.Printf("[Server] Server running on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Printf("[Server] Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}

func healthCheck(logger logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Printf("[Server] Writing health response failed: %v", err)
		}
	}
}
