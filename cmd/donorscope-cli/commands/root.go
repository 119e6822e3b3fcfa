package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"donorscope-backend/lib/configutil"
	"donorscope-backend/lib/sqliteutil"
	"donorscope-backend/lib/util/serviceutil"
	"donorscope-backend/services/catalog/db"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

type Config struct {
	FecApiKey         string `json:"fec_api_key"`
	GoogleCivicApiKey string `json:"google_civic_api_key"`
	DbPath            string `json:"db_path"`
	ElectionYear      int    `json:"election_year"`
	OutputDir         string `json:"output_dir"`
	RatingsFeedUrl    string `json:"ratings_feed_url"`
	HouseLimit        int    `json:"house_limit"`
	SenateLimit       int    `json:"senate_limit"`
	DemographicsLimit int    `json:"demographics_limit"`
	BioLimit          int    `json:"bio_limit"`
}

func (c Config) withDefaults() Config {
	if c.DbPath == "" {
		c.DbPath = "donorscope.db"
	}
	if c.OutputDir == "" {
		c.OutputDir = "web-interface/public"
	}
	return c
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if os.IsNotExist(err) {
		return Config{}.withDefaults()
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg.withDefaults()
}

func openDb(cfg Config) *sql.DB {
	database, err := sqliteutil.OpenDB(db.Schema, cfg.DbPath)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	return database
}

var rootCmd = &cobra.Command{
	Use:   "donorscope-cli",
	Short: "donorscope-cli collects candidate data, scores donation impact, and exports the results.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
