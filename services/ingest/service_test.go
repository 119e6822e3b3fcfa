package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"donorscope-backend/lib/scrapers/ballotpedia"
	"donorscope-backend/lib/scrapers/census"
	"donorscope-backend/lib/scrapers/fec"
	"donorscope-backend/lib/scrapers/googlecivic"
	"donorscope-backend/lib/scrapers/wikipedia"
	"donorscope-backend/lib/testutil"
	"donorscope-backend/services/catalog/db"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type stubFec struct {
	house  []fec.Candidate
	senate []fec.Candidate
	totals map[string]*fec.Totals
}

func (s stubFec) Candidates(ctx context.Context, year int, office string, limit int) ([]fec.Candidate, error) {
	if office == "S" {
		return s.senate, nil
	}
	return s.house, nil
}

func (s stubFec) CandidateTotals(ctx context.Context, candidateId string) (*fec.Totals, error) {
	return s.totals[candidateId], nil
}

type stubRatings struct {
	ratings []ballotpedia.Rating
}

func (s stubRatings) RaceRatings(ctx context.Context) ([]ballotpedia.Rating, bool, error) {
	return s.ratings, true, nil
}

type stubCensus struct{}

func (stubCensus) DistrictDemographics(ctx context.Context, state, district string) (*census.Demographics, error) {
	population := int64(800000)
	income := int64(65000)
	return &census.Demographics{Population: &population, MedianIncome: &income}, nil
}

type stubBios struct{}

func (stubBios) CandidateBio(ctx context.Context, name string) (*wikipedia.Bio, error) {
	return &wikipedia.Bio{Title: name, Extract: "a biography of " + name}, nil
}

type failingCivic struct{}

func (failingCivic) Elections(ctx context.Context) ([]googlecivic.Election, error) {
	return nil, fmt.Errorf("quota exceeded")
}

func TestRun(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/ingest",
		DbSchema: db.Schema,
	})
	defer cleanup()

	providers := Providers{
		Fec: stubFec{
			house: []fec.Candidate{
				{
					CandidateId:        "H6AZ01001",
					Name:               "RIVERA, MARIA",
					PartyFull:          "DEMOCRATIC PARTY",
					OfficeFull:         "House",
					State:              "AZ",
					District:           "01",
					IncumbentChallenge: "Challenger",
					CandidateStatus:    "C",
				},
				{
					CandidateId:        "H6AZ01002",
					Name:               "COLE, BRETT",
					PartyFull:          "REPUBLICAN PARTY",
					OfficeFull:         "House",
					State:              "AZ",
					District:           "01",
					IncumbentChallenge: "Incumbent",
					CandidateStatus:    "C",
				},
				// malformed, no state: must be skipped without
				// failing the batch
				{CandidateId: "H6XX00000", Name: "GHOST, CASPER"},
			},
			senate: []fec.Candidate{
				{
					CandidateId:        "S6GA00001",
					Name:               "WASHINGTON, DENISE",
					PartyFull:          "DEMOCRATIC PARTY",
					OfficeFull:         "Senate",
					State:              "GA",
					IncumbentChallenge: "Challenger",
					CandidateStatus:    "C",
				},
			},
			totals: map[string]*fec.Totals{
				"H6AZ01001": {
					Receipts:                200000,
					Disbursements:           150000,
					CashOnHand:              50000,
					IndividualContributions: 120000,
					CoverageEndDate:         "2026-06-30",
				},
				"H6AZ01002": {
					Receipts:                500000,
					Disbursements:           300000,
					CashOnHand:              200000,
					IndividualContributions: 100000,
					CoverageEndDate:         "2026-06-30",
				},
				// S6GA00001 has no filed reports
			},
		},
		Ratings: stubRatings{
			ratings: []ballotpedia.Rating{
				{State: "AZ", District: "01", Rating: "Toss-up", Competitiveness: 50},
			},
		},
		Demographics: stubCensus{},
		Bios:         stubBios{},
		Civic:        failingCivic{},
	}

	service := NewService(setup.DB, providers, Options{ElectionYear: 2026})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	report, err := service.Run(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)
	require.Equal(t, 3, report.Candidates)
	require.Equal(t, 2, report.Finances)
	require.Equal(t, 1, report.Ratings)
	require.Equal(t, 1, report.Demographics)
	require.Equal(t, 3, report.Bios)
	require.Equal(t, 0, report.Elections)

	qry := db.New(setup.DB)

	races, err := qry.ListRaces(ctx)
	require.NoError(t, err)
	require.Len(t, races, 2)

	pairs, err := qry.ListScoringPairs(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	var challenger db.ScoringPairRow
	for _, p := range pairs {
		if p.TotalReceipts.Valid && p.TotalReceipts.Float64 == 200000 {
			challenger = p
		}
	}
	require.True(t, challenger.OpponentTotalReceipts.Valid)
	require.Equal(t, 500000.0, challenger.OpponentTotalReceipts.Float64)
	require.True(t, challenger.Competitiveness.Valid)
	require.Equal(t, 50.0, challenger.Competitiveness.Float64)
	require.False(t, challenger.Incumbent)

	candidates, err := qry.ListCandidateExport(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	for _, c := range candidates {
		require.True(t, c.Bio.Valid, "bio missing for %s", c.Name)
	}

	// the failing civic provider is recorded but does not abort the run
	issues, err := qry.ListIssueExport(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 15)
}
