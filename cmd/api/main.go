// Package main is the entrypoint for the Inkpress API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/inkpress/inkpress/internal/cache"
	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/handler"
	"github.com/inkpress/inkpress/internal/middleware"
	"github.com/inkpress/inkpress/internal/seed"
	"github.com/inkpress/inkpress/internal/server"
	"github.com/inkpress/inkpress/internal/service"
	"github.com/inkpress/inkpress/internal/session"
	mongostore "github.com/inkpress/inkpress/internal/store/mongo"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Database
	st, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Error("failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("connected to MongoDB", "db", cfg.MongoDBName)

	// Cache (optional: only rate limiting depends on it)
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	}

	// Sessions
	sessionMgr := session.NewManager(st, session.Config{
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.IsProduction(),
		SameSite:   sameSiteFor(cfg),
	})

	// Services
	authService := service.NewAuthService(st, sessionMgr)
	postService := service.NewPostService(st)

	// Seed initial content
	if cfg.SeedPosts {
		if err := seed.New(st, logger).Run(ctx); err != nil {
			logger.Error("seeding failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService, sessionMgr, logger)
	postHandler := handler.NewPostHandler(postService, logger)
	healthHandler := handler.NewHealthHandler(st, pinger(cacheClient))

	r := setupRouter(authHandler, postHandler, healthHandler, authService, sessionMgr, cacheClient, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("mongodb", st.Close)
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error { return cacheClient.Close() })
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// pinger avoids handing a typed-nil *cache.Cache to the health handler.
func pinger(c *cache.Cache) handler.HealthChecker {
	if c == nil {
		return nil
	}
	return c
}

func sameSiteFor(cfg *config.Config) http.SameSite {
	if cfg.IsProduction() {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	healthHandler *handler.HealthHandler,
	authService *service.AuthService,
	sessionMgr *session.Manager,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Every request resolves its session cookie to a current user (or none).
	r.Use(middleware.CurrentUser(middleware.CurrentUserConfig{
		Logger:   logger,
		Sessions: sessionMgr,
		Users:    authService,
	}))

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Cache:   cacheClient,
		Enabled: cfg.RateLimitAuthEnabled && cacheClient != nil,
		RPS:     cfg.RateLimitAuthRPS,
		Burst:   cfg.RateLimitAuthBurst,
	}

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/readyz", healthHandler.Readyz)

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/signup", authHandler.Signup)
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.List)
		r.With(middleware.RequireAuth()).Get("/mine", postHandler.Mine)
		r.With(middleware.RequireAuth()).Post("/", postHandler.Create)
		r.Get("/{idOrSlug}", postHandler.Get)
		r.With(middleware.RequireAuth()).Put("/{idOrSlug}", postHandler.Update)
		r.With(middleware.RequireAuth()).Delete("/{idOrSlug}", postHandler.Delete)
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}
