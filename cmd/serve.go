package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ascendance/cardadmin/ascendance/config"
	"github.com/ascendance/cardadmin/ascendance/storage"
	"github.com/ascendance/cardadmin/backend/handlers"
	"github.com/ascendance/cardadmin/backend/middleware"
	"github.com/ascendance/cardadmin/backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.Info("Starting Ascendance admin API", slog.String("version", version))

		db, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		initCtx, cancel := context.WithTimeout(ctx, config.SeedTimeout)
		err = db.InitializeSchema(initCtx)
		cancel()
		if err != nil {
			slog.Error("Failed to initialize schema", slog.Any("error", err))
			return err
		}

		st, err := storage.New(ctx, cfg.Storage, cfg.Spaces)
		if err != nil {
			slog.Error("Failed to initialize storage", slog.Any("error", err))
			return err
		}

		fiberCfg := fiber.Config{
			AppName:      "Ascendance Admin API",
			ServerHeader: "Ascendance",
			ErrorHandler: middleware.CustomErrorHandler,
			BodyLimit:    cfg.Web.BodyLimit,
		}
		if len(cfg.Web.TrustedProxies) > 0 {
			fiberCfg.ProxyHeader = cfg.Web.ProxyHeader
			fiberCfg.EnableTrustedProxyCheck = true
			fiberCfg.TrustedProxies = cfg.Web.TrustedProxies
			fiberCfg.EnableIPValidation = true
		}
		app := fiber.New(fiberCfg)

		app.Use(recover.New())
		app.Use(middleware.SecurityHeaders())
		app.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed,
		}))
		app.Use(middleware.CORS(cfg.Web.AllowOrigins))
		app.Use(middleware.LoggingMiddleware())
		app.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window.Std(), cfg.RateLimit.MaxKeys))

		handlers.NewWebApp(cfg, db.BunDB(), st, version).RegisterRoutes(app)

		app.Use(func(c *fiber.Ctx) error {
			return utils.SendNotFound(c, fmt.Sprintf("Route %s %s not found", c.Method(), c.Path()))
		})

		address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
		slog.Info("Starting backend server",
			slog.String("address", address),
			slog.String("storage", cfg.Storage.Driver))

		serveErr := make(chan error, 1)
		go func() {
			serveErr <- app.Listen(address)
		}()

		select {
		case err := <-serveErr:
			if err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
			}
			return err
		case <-ctx.Done():
		}

		slog.Info("Shutting down backend server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Server shutdown error", slog.Any("error", err))
		}

		slog.Info("Backend server shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
