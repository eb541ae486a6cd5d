package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	server *http.Server
	logger zerolog.Logger
	// appRouter держит конечные маршруты; chi не позволяет вешать Use после их регистрации
	appRouter chi.Router
	// rootRouter нужен для цепочки middleware, сюда монтируется appRouter
	rootRouter *chi.Mux
	mounted    bool
}

type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Middleware - цепочка корневого роутера. Пустые звенья пропускаются.
type Middleware struct {
	CORS     func(http.Handler) http.Handler
	Timeout  func(http.Handler) http.Handler
	Logger   func(http.Handler) http.Handler
	Recovery func(http.Handler) http.Handler
}

func NewServer(cfg ServerConfig, router chi.Router, logger zerolog.Logger) *Server {
	s := &Server{
		logger:     logger.With().Str("component", "server").Logger(),
		appRouter:  router,
		rootRouter: chi.NewRouter(),
	}

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.rootRouter,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.rootRouter
}

func (s *Server) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("Starting server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server")
	return s.server.Shutdown(ctx)
}

func (s *Server) SetupMiddleware(mw Middleware) {
	s.rootRouter.Use(middleware.RequestID)
	s.rootRouter.Use(middleware.RealIP)
	s.rootRouter.Use(middleware.StripSlashes)
	s.rootRouter.Use(middleware.CleanPath)

	for _, m := range []func(http.Handler) http.Handler{
		mw.CORS,     // cors первым, чтобы preflight не доходил до остальных
		mw.Logger,   // логирование видит итоговый статус, включая 504
		mw.Timeout,
		mw.Recovery, // recovery ближе к обработчику
	} {
		if m != nil {
			s.rootRouter.Use(m)
		}
	}

	if !s.mounted {
		// монтируем после навешивания middleware
		s.rootRouter.Mount("/", s.appRouter)
		s.mounted = true
	}
}
