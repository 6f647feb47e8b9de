package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ascendance/cardadmin/ascendance"
	"github.com/ascendance/cardadmin/ascendance/database"
	"github.com/ascendance/cardadmin/ascendance/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *ascendance.Config
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:          "ascendance",
	Short:        "Administrative backend for the Ascendance card game",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := ascendance.LoadConfig(configPath)
		if err != nil {
			slog.Error("Failed to load configuration", slog.Any("error", err))
			return err
		}
		cfg = loaded

		slog.SetDefault(slog.New(logger.New(logger.Options{
			AppName:   "Ascendance",
			Format:    cfg.Log.Format,
			Level:     cfg.Log.Level,
			AddSource: cfg.Log.AddSource,
		})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
}

// Execute runs the command line. It exits the process on failure.
func Execute(v string) {
	version = v
	slog.SetDefault(slog.New(logger.NewHandler("Ascendance", os.Stdout, slog.LevelInfo)))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// connectDB opens the PostgreSQL pool described by the [db] section
func connectDB(ctx context.Context) (*database.DB, error) {
	slog.Info("Initializing database connection...")
	start := time.Now()

	db, err := database.New(ctx, database.DBConfig{
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Database:     cfg.DB.Database,
		PoolSize:     cfg.DB.PoolSize,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxLifetime:  cfg.DB.MaxLifetime,
	})
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		return nil, err
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		slog.Error("Database ping failed", slog.Any("error", err))
		return nil, err
	}

	slog.Info("Database connection established",
		slog.Duration("took", time.Since(start)))
	return db, nil
}
