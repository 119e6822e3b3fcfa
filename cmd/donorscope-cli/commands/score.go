package commands

import (
	"log/slog"

	"donorscope-backend/lib/util/serviceutil"
	"donorscope-backend/services/scoring"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scoreCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Recomputes all impact scores from the data already in the database.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		database := openDb(cfg)
		defer database.Close()

		scored, skipped, err := scoring.NewService(database).Recompute(cmd.Context())
		if err != nil {
			serviceutil.Fatal("score recompute failed", err)
		}
		slog.Info("scoring complete", "scored", scored, "skipped", skipped)
	},
}
