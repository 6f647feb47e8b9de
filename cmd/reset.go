package cmd

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
)

var confirmReset bool

var resetCMD = &cobra.Command{
	Use:   "reset",
	Short: "truncate every application table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmReset {
			return errors.New("refusing to reset without --yes")
		}

		ctx := cmd.Context()
		db, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.ResetAppTables(ctx); err != nil {
			slog.Error("Reset failed", "error", err)
			return err
		}

		slog.Warn("Application tables truncated")
		return nil
	},
}

func init() {
	resetCMD.Flags().BoolVar(&confirmReset, "yes", false, "confirm truncating all application tables")
	rootCmd.AddCommand(resetCMD)
}
