package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthintel/healthintel/internal/config"
	"github.com/healthintel/healthintel/internal/domain/analysis"
	"github.com/healthintel/healthintel/internal/domain/analytics"
	"github.com/healthintel/healthintel/internal/domain/chat"
	"github.com/healthintel/healthintel/internal/domain/healthlog"
	"github.com/healthintel/healthintel/internal/domain/intelligence"
	"github.com/healthintel/healthintel/internal/domain/medsafety"
	"github.com/healthintel/healthintel/internal/domain/nutrition"
	"github.com/healthintel/healthintel/internal/domain/orchestrator"
	"github.com/healthintel/healthintel/internal/domain/profile"
	"github.com/healthintel/healthintel/internal/domain/summary"
	"github.com/healthintel/healthintel/internal/platform/auth"
	"github.com/healthintel/healthintel/internal/platform/cache"
	"github.com/healthintel/healthintel/internal/platform/db"
	"github.com/healthintel/healthintel/internal/platform/inference"
	"github.com/healthintel/healthintel/internal/platform/middleware"
	"github.com/healthintel/healthintel/internal/platform/telemetry"
	"github.com/healthintel/healthintel/internal/platform/translation"
	"github.com/healthintel/healthintel/internal/platform/websocket"
	"github.com/healthintel/healthintel/migrations"
	"github.com/healthintel/healthintel/pkg/refdata"
	"github.com/healthintel/healthintel/pkg/retry"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "healthintel-server",
		Short: "Personal health intelligence API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if schema == "" {
				schema = cfg.DBSchema
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, poolOptions(cfg, schema))
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, migrations.FS)
			fmt.Printf("Running migrations on schema: %s\n", schema)

			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "", "Target schema for migrations (defaults to DB_SCHEMA)")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if schema == "" {
				schema = cfg.DBSchema
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, poolOptions(cfg, schema))
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, migrations.FS)
			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("schema", "", "Target schema for migrations (defaults to DB_SCHEMA)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect reference datasets",
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Load every reference dataset and report which are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("data-dir")
			strict, _ := cmd.Flags().GetBool("strict")
			ok := checkRules(cmd.OutOrStdout(), dir, zerolog.Nop())
			if strict && !ok {
				return errors.New("one or more reference datasets are unavailable")
			}
			return nil
		},
	}
	checkCmd.Flags().String("data-dir", envOr("DATA_DIR", "data"), "Directory holding the reference CSV files")
	checkCmd.Flags().Bool("strict", false, "Exit non-zero when any dataset is unavailable")

	cmd.AddCommand(checkCmd)
	return cmd
}

// checkRules prints one line per dataset and reports whether all loaded.
func checkRules(w io.Writer, dataDir string, logger zerolog.Logger) bool {
	statuses := analysis.NewDatasets(dataDir).Check()
	n, err := medsafety.NewChecker(dataDir, logger).Ready()
	statuses = append(statuses, analysis.DatasetStatus{File: medsafety.InteractionsFile, Rows: n, Err: err})

	fmt.Fprintf(w, "Reference datasets in: %s\n", dataDir)
	fmt.Fprintf(w, "%-28s %-12s %s\n", "FILE", "STATUS", "ROWS")
	healthy := true
	for _, s := range statuses {
		switch {
		case s.Err == nil:
			fmt.Fprintf(w, "%-28s %-12s %d\n", s.File, "ok", s.Rows)
		case errors.Is(s.Err, refdata.ErrMissing):
			healthy = false
			fmt.Fprintf(w, "%-28s %-12s -\n", s.File, "missing")
		default:
			healthy = false
			fmt.Fprintf(w, "%-28s %-12s %v\n", s.File, "invalid", s.Err)
		}
	}
	return healthy
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			roles, _ := cmd.Flags().GetStringSlice("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			secret, _ := cmd.Flags().GetString("secret")
			issuer, _ := cmd.Flags().GetString("issuer")

			uid, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}

			tok, err := auth.IssueToken(auth.JWTConfig{Issuer: issuer, SigningKey: []byte(secret)}, uid, roles, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().String("user", "", "User id (UUID) placed in the subject claim")
	cmd.Flags().StringSlice("role", []string{auth.RoleUser}, "Role to grant (repeatable)")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().String("secret", os.Getenv("JWT_SECRET"), "HS256 signing secret")
	cmd.Flags().String("issuer", envOr("JWT_ISSUER", "healthintel"), "Issuer claim")
	return cmd
}

func poolOptions(cfg *config.Config, schema string) db.PoolOptions {
	return db.PoolOptions{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		Schema:          schema,
		ApplicationName: "healthintel-server",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// stores are the persistence and cache backends the API runs on.
type stores struct {
	profiles profile.Repository
	logs     healthlog.Repository
	chats    chat.Repository
	tx       db.TxBeginner
	cache    cache.Cache
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()

	// Tracing
	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  "healthintel-server",
		Version:      version,
		Environment:  cfg.Env,
		SampleRatio:  cfg.OTelSampleRatio,
		OTLPEndpoint: cfg.OTelEndpoint,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("tracer shutdown failed")
		}
	}()

	// Database
	pool, err := db.NewPool(ctx, poolOptions(cfg, cfg.DBSchema))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Cache
	var valueCache cache.Cache = cache.Noop{}
	var checks []db.Check
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, caching disabled")
		} else {
			defer client.Close()
			valueCache = cache.NewRedis(client, "healthintel:")
			checks = append(checks, db.Check{Name: "redis", Ping: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}})
			logger.Info().Msg("connected to redis")
		}
	}

	e := newServer(cfg, stores{
		profiles: profile.NewRepoPG(pool),
		logs:     healthlog.NewRepoPG(pool),
		chats:    chat.NewRepoPG(pool),
		tx:       pool,
		cache:    valueCache,
	}, logger, tp.TracingMiddleware())

	// DB health check endpoint
	e.GET("/health/db", db.HealthHandler(pool, checks...))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer builds the echo instance with global middleware and every
// domain route registered under /api/v1. outer runs right after panic
// recovery.
func newServer(cfg *config.Config, st stores, logger zerolog.Logger, outer ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(outer...)
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit, map[string]string{
		"/api/v1/lab/analyze":         cfg.UploadLimit,
		"/api/v1/full-health/analyze": cfg.UploadLimit,
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Auth middleware
	jwtCfg := auth.JWTConfig{Issuer: cfg.JWTIssuer, SigningKey: []byte(cfg.JWTSecret)}
	if cfg.ResolvedAuthMode() == config.AuthModeDevelopment {
		logger.Warn().Msg("development auth mode: unauthenticated requests run as the dev user")
		e.Use(auth.DevAuthMiddleware(jwtCfg))
	} else {
		e.Use(auth.JWTMiddleware(jwtCfg))
	}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	apiV1 := e.Group("/api/v1")

	// Rate limiting middleware
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	valueCache := st.cache
	if valueCache == nil {
		valueCache = cache.Noop{}
	}

	// Inference sidecar
	models := inference.NewClient(cfg.InferenceURL, cfg.InferenceTimeout, logger).WithRetry(retry.DefaultConfig())
	if !models.Enabled() {
		logger.Warn().Msg("INFERENCE_URL not set, model-backed features degrade to placeholders")
	}
	var translator translation.Translator = translation.Passthrough{}
	if cfg.TranslationURL != "" {
		backend := inference.NewClient(cfg.TranslationURL, cfg.InferenceTimeout, logger).WithRetry(retry.DefaultConfig())
		translator = translation.NewService(backend, valueCache, cfg.CacheTTL, logger)
	}

	// Reference-data engines
	engine := analysis.NewEngine(analysis.NewDatasets(cfg.DataDir), analysis.Models{
		Triage:   models,
		Emotions: models,
		QA:       models,
	}, valueCache, cfg.CacheTTL, logger)
	checker := medsafety.NewChecker(cfg.DataDir, logger)

	// Profile domain
	profileSvc := profile.NewService(st.profiles)
	profile.NewHandler(profileSvc).RegisterRoutes(apiV1)

	// Real-time alerts
	hub := websocket.NewHub(logger)
	websocket.NewHandler(hub, cfg.CORSOrigins).RegisterRoutes(apiV1)

	// Health log domain
	logSvc := healthlog.NewService(st.logs, st.profiles)
	logSvc.SetEnricher(engine)
	logSvc.SetPublisher(hub)
	healthlog.NewHandler(logSvc).RegisterRoutes(apiV1)

	// Medication safety
	safetySvc := medsafety.NewService(st.profiles, st.logs, checker, logger)
	medsafety.NewHandler(safetySvc).RegisterRoutes(apiV1)

	// Health intelligence
	intelSvc := intelligence.NewService(st.profiles, st.logs, logger)
	intelligence.NewHandler(intelSvc).RegisterRoutes(apiV1)

	// Nutrition recommendations
	nutritionSvc := nutrition.NewService(st.profiles, st.logs, logger)
	nutrition.NewHandler(nutritionSvc).RegisterRoutes(apiV1)

	// Health summary
	summarySvc := summary.NewService(st.profiles, st.logs, logger)
	summary.NewHandler(summarySvc).RegisterRoutes(apiV1)

	// Chat
	chatSvc := chat.NewService(st.chats, st.tx, chat.NewEngine(models, models, logger), logger)
	chat.NewHandler(chatSvc).RegisterRoutes(apiV1)

	// Single-purpose analysis
	analysis.NewHandler(engine).RegisterRoutes(apiV1)

	// Analytics
	analyticsSvc := analytics.NewService(st.logs)
	analytics.NewHandler(analyticsSvc).RegisterRoutes(apiV1)

	// Full health analysis
	orchestratorSvc := orchestrator.NewService(engine, translator, logger)
	orchestrator.NewHandler(orchestratorSvc).RegisterRoutes(apiV1)

	logger.Info().Int("routes", countAPIRoutes(e)).Msg("routes registered")
	return e
}

func countAPIRoutes(e *echo.Echo) int {
	n := 0
	for _, r := range e.Routes() {
		if strings.HasPrefix(r.Path, "/api/v1/") {
			n++
		}
	}
	return n
}
