package scoring

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"donorscope-backend/lib/testutil"
	"donorscope-backend/services/catalog"
	"donorscope-backend/services/catalog/db"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestRecompute(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/scoring",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := catalog.NewService(setup.DB)
	service := NewService(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	underdog, err := store.SaveCandidate(ctx, catalog.SaveCandidateInput{
		FecCandidateID: "H6AZ01001",
		Name:           "RIVERA, MARIA",
		Party:          "DEMOCRATIC PARTY",
		Office:         "House",
		State:          "AZ",
		District:       "01",
		GeneralDate:    "2026-11-03",
	})
	require.NoError(t, err)
	leader, err := store.SaveCandidate(ctx, catalog.SaveCandidateInput{
		FecCandidateID: "H6AZ01002",
		Name:           "COLE, BRETT",
		Party:          "REPUBLICAN PARTY",
		Office:         "House",
		State:          "AZ",
		District:       "01",
		Incumbent:      true,
		GeneralDate:    "2026-11-03",
	})
	require.NoError(t, err)
	// a candidate with no finance filing at all, must be skipped
	_, err = store.SaveCandidate(ctx, catalog.SaveCandidateInput{
		FecCandidateID: "H6AZ01003",
		Name:           "NGUYEN, THANH",
		Party:          "LIBERTARIAN PARTY",
		Office:         "House",
		State:          "AZ",
		District:       "01",
		GeneralDate:    "2026-11-03",
	})
	require.NoError(t, err)

	qry := store.Queries()
	_, err = qry.InsertCampaignFinance(ctx, db.InsertCampaignFinanceParams{
		CandidateID:           underdog.CandidateID,
		TotalReceipts:         200000,
		SmallDollarPercentage: 30,
	})
	require.NoError(t, err)
	_, err = qry.InsertCampaignFinance(ctx, db.InsertCampaignFinanceParams{
		CandidateID:           leader.CandidateID,
		TotalReceipts:         500000,
		SmallDollarPercentage: 10,
	})
	require.NoError(t, err)

	err = qry.UpdateRaceRating(ctx, db.UpdateRaceRatingParams{
		Competitiveness: sql.NullFloat64{Float64: 48, Valid: true},
		Rating:          sql.NullString{String: "Toss-up", Valid: true},
		State:           "AZ",
		District:        "01",
	})
	require.NoError(t, err)

	err = store.BackfillOpposition(ctx, underdog.RaceID, func(receipts, opponentReceipts float64) float64 {
		return LeverageScore(receipts, opponentReceipts, 48)
	})
	require.NoError(t, err)

	scored, skipped, err := service.Recompute(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, scored)
	require.Equal(t, 1, skipped)

	rows, err := qry.ListCandidateExport(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// export is ordered by overall impact descending, so the
	// underfunded challenger in the toss-up race comes first
	first := rows[0]
	require.Equal(t, "RIVERA, MARIA", first.Name)
	require.True(t, first.OverallImpactScore.Valid)
	require.Equal(t, 92.4, first.FundingLeverageScore.Float64)
	require.Equal(t, TierHighImpact, first.RecommendationTier.String)
	require.Equal(t, -300000.0, first.FundingGap.Float64)

	for _, row := range rows {
		if row.Name == "NGUYEN, THANH" {
			require.False(t, row.OverallImpactScore.Valid)
			require.False(t, row.RecommendationTier.Valid)
		}
	}

	stored, err := qry.GetImpactScore(ctx, db.GetImpactScoreParams{
		CandidateID: underdog.CandidateID,
		RaceID:      underdog.RaceID,
	})
	require.NoError(t, err)
	require.Equal(t, 96.0, stored.CompetitivenessScore)
	require.Equal(t, 92.4, stored.FundingLeverageScore)
	require.Equal(t, 70.0, stored.ControlImpactScore)
	require.Equal(t, 60.0, stored.GrassrootsPotentialScore)
	require.Equal(t, TierHighImpact, stored.RecommendationTier)
	require.NotEmpty(t, stored.CalculatedAt)

	// a second run replaces rather than accumulates
	scored, skipped, err = service.Recompute(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, scored)
	require.Equal(t, 1, skipped)
}
