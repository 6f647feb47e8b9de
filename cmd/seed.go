package cmd

import (
	"context"
	"log/slog"

	"github.com/ascendance/cardadmin/ascendance/config"
	"github.com/ascendance/cardadmin/ascendance/database"
	"github.com/spf13/cobra"
)

var seedCMD = &cobra.Command{
	Use:   "seed",
	Short: "insert the starter catalog (archetype, types, factions, effects, bonuses)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.SeedTimeout)
		defer cancel()

		db, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			slog.Error("Failed to initialize schema", "error", err)
			return err
		}

		report, err := database.Seed(ctx, db.BunDB())
		if err != nil {
			slog.Error("Seeding failed", "error", err)
			return err
		}

		slog.Info("Seeding completed",
			slog.Int("archetypes", report.Archetypes),
			slog.Int("types", report.Types),
			slog.Int("factions", report.Factions),
			slog.Int("effect_types", report.EffectTypes),
			slog.Int("effects", report.Effects),
			slog.Int("bonuses", report.Bonuses),
			slog.Int("total", report.Total()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCMD)
}
