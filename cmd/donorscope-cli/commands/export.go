package commands

import (
	"log/slog"

	"donorscope-backend/lib/util/serviceutil"
	"donorscope-backend/services/export"

	"github.com/spf13/cobra"
)

var exportOut *string

func init() {
	exportOut = exportCmd.Flags().String("out", "", "Directory to write the JSON documents to, overrides the config.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--out <dir>]",
	Short: "Writes the static JSON documents the web interface reads.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		database := openDb(cfg)
		defer database.Close()

		outDir := cfg.OutputDir
		if *exportOut != "" {
			outDir = *exportOut
		}

		stats, err := export.NewService(database).Export(cmd.Context(), outDir)
		if err != nil {
			serviceutil.Fatal("export failed", err)
		}
		slog.Info(
			"export complete",
			"out_dir", outDir,
			"candidates", stats.TotalCandidates,
			"races", stats.TotalRaces,
			"issues", stats.TotalIssues,
			"high_impact", stats.HighImpactCandidates,
			"competitive_races", stats.CompetitiveRaces,
		)
	},
}
