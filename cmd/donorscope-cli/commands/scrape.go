package commands

import (
	"log/slog"
	"time"

	"donorscope-backend/lib/scrapers/ballotpedia"
	"donorscope-backend/lib/scrapers/census"
	"donorscope-backend/lib/scrapers/fec"
	"donorscope-backend/lib/scrapers/googlecivic"
	"donorscope-backend/lib/scrapers/wikipedia"
	"donorscope-backend/lib/telemetry"
	"donorscope-backend/lib/util/serviceutil"
	"donorscope-backend/services/export"
	"donorscope-backend/services/ingest"
	"donorscope-backend/services/scoring"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Runs a full data collection pass, recomputes scores, and exports JSON.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		database := openDb(cfg)
		defer database.Close()

		ctx := cmd.Context()
		telemetry.InstrumentPerfStats(ctx)

		providers := ingest.Providers{
			Fec:          fec.NewClient(fec.ClientOptions{ApiKey: cfg.FecApiKey}),
			Ratings:      ballotpedia.NewClient(ballotpedia.ClientOptions{FeedUrl: cfg.RatingsFeedUrl}),
			Demographics: census.NewClient(census.ClientOptions{}),
			Bios:         wikipedia.NewClient(wikipedia.ClientOptions{}),
		}
		if cfg.GoogleCivicApiKey != "" {
			providers.Civic = googlecivic.NewClient(googlecivic.ClientOptions{
				ApiKey: cfg.GoogleCivicApiKey,
			})
		}

		service := ingest.NewService(database, providers, ingest.Options{
			ElectionYear:       cfg.ElectionYear,
			HouseLimit:         cfg.HouseLimit,
			SenateLimit:        cfg.SenateLimit,
			DemographicsSample: cfg.DemographicsLimit,
			BioSample:          cfg.BioLimit,
		})

		t1 := time.Now()
		report, err := service.Run(ctx)
		if err != nil {
			serviceutil.Fatal("ingest run failed", err)
		}
		slog.Info(
			"ingest complete",
			"run_id", report.RunID,
			"candidates", report.Candidates,
			"finances", report.Finances,
			"ratings", report.Ratings,
			"demographics", report.Demographics,
			"bios", report.Bios,
			"seconds", time.Since(t1).Seconds(),
		)

		scored, skipped, err := scoring.NewService(database).Recompute(ctx)
		if err != nil {
			serviceutil.Fatal("score recompute failed", err)
		}
		slog.Info("scoring complete", "scored", scored, "skipped", skipped)

		stats, err := export.NewService(database).Export(ctx, cfg.OutputDir)
		if err != nil {
			serviceutil.Fatal("export failed", err)
		}
		slog.Info(
			"export complete",
			"out_dir", cfg.OutputDir,
			"candidates", stats.TotalCandidates,
			"races", stats.TotalRaces,
			"high_impact", stats.HighImpactCandidates,
		)
	},
}
