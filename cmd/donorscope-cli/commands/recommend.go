package commands

import (
	"fmt"
	"os"

	"donorscope-backend/lib/util/serviceutil"
	"donorscope-backend/services/export"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	recommendTop      *int
	recommendName     *string
	recommendParty    *string
	recommendState    *string
	recommendTier     *string
	recommendMinScore *float64
)

func init() {
	recommendTop = recommendCmd.Flags().Int("top", 25, "How many candidates to show.")
	recommendName = recommendCmd.Flags().String("name", "", "Case-insensitive name substring.")
	recommendParty = recommendCmd.Flags().String("party", "", "Exact party name.")
	recommendState = recommendCmd.Flags().String("state", "", "Two-letter state code.")
	recommendTier = recommendCmd.Flags().String("tier", "", "Exact recommendation tier.")
	recommendMinScore = recommendCmd.Flags().Float64("min-score", 0, "Minimum overall impact score.")
	rootCmd.AddCommand(recommendCmd)
}

var recommendCmd = &cobra.Command{
	Use:   "recommend [--top <n>] [--name <s>] [--party <s>] [--state <s>] [--tier <s>] [--min-score <n>]",
	Short: "Prints the top donation recommendations, highest impact first.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		database := openDb(cfg)
		defer database.Close()

		candidates, err := export.NewService(database).Candidates(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to load candidates", err)
		}

		candidates = export.Filter(candidates, export.Query{
			Name:     *recommendName,
			Party:    *recommendParty,
			State:    *recommendState,
			Tier:     *recommendTier,
			MinScore: *recommendMinScore,
		})
		if len(candidates) > *recommendTop {
			candidates = candidates[:*recommendTop]
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Name", "Party", "Race", "Impact", "Leverage", "Funding Gap", "Tier",
		})
		for _, c := range candidates {
			race := c.State
			if c.District != "" {
				race = fmt.Sprintf("%s-%s", c.State, c.District)
			}
			t.AppendRow(table.Row{
				c.Name,
				c.Party,
				race,
				formatScore(c.OverallImpactScore),
				formatScore(c.DonationLeverageScore),
				formatMoney(c.FundingGap),
				formatTier(c.RecommendationTier),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("$%.0f", *v)
}

func formatTier(v *string) string {
	if v == nil {
		return "unscored"
	}
	return *v
}
