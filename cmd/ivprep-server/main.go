package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ivprep/ivprep/internal/config"
	"github.com/ivprep/ivprep/internal/domain/auditlog"
	"github.com/ivprep/ivprep/internal/domain/drug"
	"github.com/ivprep/ivprep/internal/domain/patient"
	"github.com/ivprep/ivprep/internal/domain/preparation"
	"github.com/ivprep/ivprep/internal/domain/user"
	"github.com/ivprep/ivprep/internal/platform/auth"
	"github.com/ivprep/ivprep/internal/platform/db"
	"github.com/ivprep/ivprep/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ivprep-server",
		Short: "IV preparation records API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

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
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			store, err := db.Open(ctx, cfg.DBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := db.NewMigrator(store).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration step(s) on %s.\n", count, cfg.DBPath())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migration steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := db.Open(context.Background(), cfg.DBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Printf("Migration steps for %s:\n", cfg.DBPath())
			for _, name := range db.NewMigrator(store).Status() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	})

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the starter drug catalog into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			store, err := db.Open(ctx, cfg.DBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			if _, err := db.NewMigrator(store).Up(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			svc := drug.NewService(drug.NewRepoSQLite(store))
			n, err := svc.SeedIfEmpty(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Println("Catalog already populated; nothing seeded.")
				return nil
			}
			fmt.Printf("Seeded %d drugs.\n", n)
			return nil
		},
	}
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

	secret := cfg.TokenSecret
	if secret == "" {
		// Development convenience only; sessions do not survive a restart.
		buf := make([]byte, 32)
		if _, err := crypto_rand.Read(buf); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate token secret")
		}
		secret = hex.EncodeToString(buf)
		logger.Warn().Msg("TOKEN_SECRET not set, using a random secret; sessions reset on restart")
	}

	// Database
	ctx := context.Background()
	store, err := db.Open(ctx, cfg.DBPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer store.Close()
	logger.Info().Str("path", cfg.DBPath()).Msg("database open")

	if n, err := db.NewMigrator(store).Up(ctx); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	} else if n > 0 {
		logger.Info().Int("steps", n).Msg("applied migrations")
	}

	// Repositories and services
	issuer := auth.NewIssuer([]byte(secret), time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	userSvc := user.NewService(user.NewRepoSQLite(store))
	prepRepo := preparation.NewRepoSQLite(store)
	patientSvc := patient.NewService(store, patient.NewRepoSQLite(store), prepRepo)
	drugSvc := drug.NewService(drug.NewRepoSQLite(store))
	prepSvc := preparation.NewService(prepRepo, patientSvc, drugSvc)
	auditSvc := auditlog.NewService(auditlog.NewRepoSQLite(store), logger)

	if admin, err := userSvc.EnsureBootstrapAdmin(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure bootstrap admin")
	} else {
		logger.Info().Str("username", admin.Username).Msg("bootstrap admin ready")
	}
	if n, err := drugSvc.SeedIfEmpty(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed drug catalog")
	} else if n > 0 {
		logger.Info().Int("drugs", n).Msg("seeded starter catalog")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))

	e.GET("/health", func(c echo.Context) error {
		if err := store.DB().PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "down"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Routes
	apiV1 := e.Group("/api/v1")

	userHandler := user.NewHandler(userSvc, issuer)
	userHandler.RegisterPublicRoutes(apiV1)

	protected := apiV1.Group("", auth.RequireAuth(issuer))
	userHandler.RegisterRoutes(protected)
	patient.NewHandler(patientSvc).RegisterRoutes(protected)
	drug.NewHandler(drugSvc).RegisterRoutes(protected)
	preparation.NewHandler(prepSvc).RegisterRoutes(protected)
	auditlog.NewHandler(auditSvc).RegisterRoutes(protected)

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
