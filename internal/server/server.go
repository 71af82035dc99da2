package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/KC-426/aeonaxy/config"
	"github.com/KC-426/aeonaxy/internal/auth"
	"github.com/KC-426/aeonaxy/internal/db"
	"github.com/KC-426/aeonaxy/internal/handlers"
	"github.com/KC-426/aeonaxy/internal/notify"
	"github.com/KC-426/aeonaxy/internal/services"
	"github.com/KC-426/aeonaxy/internal/storage"
	"github.com/KC-426/aeonaxy/internal/store"
)

// Server wraps the HTTP server and the connections its routes depend on.
type Server struct {
	httpServer  *http.Server
	db          *sql.DB
	media       *storage.Storage
	closeNotify func() error
}

// New wires the store, services and routes described by cfg.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	media, err := storage.New(ctx, cfg.Media)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("media storage: %w", err)
	}

	sender, closeNotify, err := notify.New(ctx, cfg.Notify)
	if err != nil {
		_ = media.Close()
		_ = dbConn.Close()
		return nil, fmt.Errorf("notifications: %w", err)
	}

	userRepo := store.NewUserRepository(dbConn)
	adminRepo := store.NewAdminRepository(dbConn)
	courseRepo := store.NewCourseRepository(dbConn)
	enrollmentRepo := store.NewEnrollmentRepository(dbConn)

	hasher := auth.NewPasswordHasher(auth.DefaultCost)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	router := NewRouter(App{
		Users:       services.NewUserService(userRepo, enrollmentRepo, hasher, tokens, media, sender),
		Admins:      services.NewAdminService(adminRepo, hasher, tokens),
		Courses:     services.NewCourseService(courseRepo),
		Enrollments: services.NewEnrollmentService(enrollmentRepo, userRepo, courseRepo, sender),
		Tokens:      tokens,
		DB:          dbConn,
	}, Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		CookieTTL:      cfg.JWT.TTL,
		SecureCookie:   cfg.IsProduction(),
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer:  httpServer,
		db:          dbConn,
		media:       media,
		closeNotify: closeNotify,
	}, nil
}

// App holds the services the routes are served from.
type App struct {
	Users       *services.UserService
	Admins      *services.AdminService
	Courses     *services.CourseService
	Enrollments *services.EnrollmentService
	Tokens      handlers.TokenVerifier
	// DB is pinged by /healthz when set.
	DB handlers.Pinger
}

// Options carries the HTTP-level settings of the router.
type Options struct {
	AllowedOrigins []string
	CookieTTL      time.Duration
	SecureCookie   bool
}

// NewRouter builds the chi router with middleware and every route.
func NewRouter(app App, opts Options) *chi.Mux {
	authMiddleware := handlers.RequireAuth(app.Tokens)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
		corsMiddleware(opts.AllowedOrigins),
	)
	router.Get("/healthz", handlers.Healthz(app.DB))
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, app.Users, app.Enrollments, handlers.UserOptions{
			CookieTTL:    opts.CookieTTL,
			SecureCookie: opts.SecureCookie,
		}, authMiddleware)
	})
	router.Route("/admins", func(r chi.Router) {
		handlers.AdminRouter(r, app.Admins, authMiddleware)
	})
	router.Route("/courses", func(r chi.Router) {
		handlers.CourseRouter(r, app.Courses, authMiddleware)
	})
	return router
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowAny := len(origins) == 1 && origins[0] == "*"
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: !allowAny,
		MaxAge:           300,
	}).Handler
}

// Start runs the HTTP server. It returns nil after Shutdown.
func (s *Server) Start() error {
	slog.Info("http server listening", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the notification
// broker, the media client and the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.closeNotify != nil {
		err = errors.Join(err, s.closeNotify())
	}
	if s.media != nil {
		err = errors.Join(err, s.media.Close())
	}
	if s.db != nil {
		err = errors.Join(err, s.db.Close())
	}
	return err
}
