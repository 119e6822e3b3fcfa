// Package ingest orchestrates one full data collection run: FEC
// candidate rosters and finance totals, race ratings, census
// demographics, wikipedia bios, and the optional Google Civic election
// calendar. A provider failure never aborts the run; it is logged and
// recorded, and the pipeline moves on.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"donorscope-backend/lib/scrapers/ballotpedia"
	"donorscope-backend/lib/scrapers/census"
	"donorscope-backend/lib/scrapers/fec"
	"donorscope-backend/lib/scrapers/googlecivic"
	"donorscope-backend/lib/scrapers/wikipedia"
	"donorscope-backend/services/catalog"
	"donorscope-backend/services/catalog/db"
	"donorscope-backend/services/scoring"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/ingest")

type CandidateSource interface {
	Candidates(ctx context.Context, year int, office string, limit int) ([]fec.Candidate, error)
	CandidateTotals(ctx context.Context, candidateId string) (*fec.Totals, error)
}

type RatingsSource interface {
	RaceRatings(ctx context.Context) ([]ballotpedia.Rating, bool, error)
}

type DemographicsSource interface {
	DistrictDemographics(ctx context.Context, state, district string) (*census.Demographics, error)
}

type BioSource interface {
	CandidateBio(ctx context.Context, name string) (*wikipedia.Bio, error)
}

type ElectionsSource interface {
	Elections(ctx context.Context) ([]googlecivic.Election, error)
}

type Providers struct {
	Fec          CandidateSource
	Ratings      RatingsSource
	Demographics DemographicsSource
	Bios         BioSource
	// optional, may be nil
	Civic ElectionsSource
}

type Options struct {
	ElectionYear int
	HouseLimit   int
	SenateLimit  int
	// how many districts to fetch demographics for
	DemographicsSample int
	// how many candidates to fetch bios for
	BioSample int
}

func (o Options) withDefaults() Options {
	if o.ElectionYear == 0 {
		o.ElectionYear = 2026
	}
	if o.HouseLimit == 0 {
		o.HouseLimit = 300
	}
	if o.SenateLimit == 0 {
		o.SenateLimit = 100
	}
	if o.DemographicsSample == 0 {
		o.DemographicsSample = 20
	}
	if o.BioSample == 0 {
		o.BioSample = 10
	}
	return o
}

type Service struct {
	db        *sql.DB
	qry       *db.Queries
	catalog   catalog.Service
	providers Providers
	opts      Options
}

func NewService(database *sql.DB, providers Providers, opts Options) Service {
	return Service{
		db:        database,
		qry:       db.New(database),
		catalog:   catalog.NewService(database),
		providers: providers,
		opts:      opts.withDefaults(),
	}
}

// Report summarizes one ingest run.
type Report struct {
	RunID        string
	Candidates   int
	Finances     int
	Ratings      int
	Demographics int
	Bios         int
	Elections    int
}

type savedCandidate struct {
	id     int64
	raceId int64
	name   string
}

// Run executes a full data collection pass.
func (s Service) Run(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	report := Report{RunID: uuid.NewString()}
	span.SetAttributes(attribute.String("run_id", report.RunID))

	err := s.catalog.SeedIssues(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}

	generalDate := fmt.Sprintf("%d-11-03", s.opts.ElectionYear)
	electionId, err := s.qry.UpsertElection(ctx, db.UpsertElectionParams{
		ElectionDate: generalDate,
		ElectionType: "General Election",
		Description:  fmt.Sprintf("%d U.S. General Election", s.opts.ElectionYear),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}

	var saved []savedCandidate
	for _, office := range []struct {
		code  string
		limit int
	}{
		{"H", s.opts.HouseLimit},
		{"S", s.opts.SenateLimit},
	} {
		batch, err := s.ingestOffice(ctx, report.RunID, electionId, generalDate, office.code, office.limit)
		if err != nil {
			slog.ErrorContext(ctx, "candidate ingestion failed", "office", office.code, "err", err)
			continue
		}
		saved = append(saved, batch.candidates...)
		report.Candidates += len(batch.candidates)
		report.Finances += batch.finances
	}

	report.Ratings = s.applyRatings(ctx, report.RunID)
	s.backfillOpposition(ctx, saved)
	report.Demographics = s.fetchDemographics(ctx, report.RunID)
	report.Bios = s.fetchBios(ctx, report.RunID, saved)
	report.Elections = s.fetchCivicElections(ctx, report.RunID)

	span.SetAttributes(
		attribute.Int("candidates", report.Candidates),
		attribute.Int("finances", report.Finances),
	)
	return report, nil
}

type officeBatch struct {
	candidates []savedCandidate
	finances   int
}

func (s Service) ingestOffice(ctx context.Context, runId string, electionId int64, generalDate, office string, limit int) (officeBatch, error) {
	ctx, span := tracer.Start(ctx, "ingestOffice")
	defer span.End()

	span.SetAttributes(attribute.String("office", office))

	roster, err := s.providers.Fec.Candidates(ctx, s.opts.ElectionYear, office, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.recordSource(ctx, runId, "fec_candidates_"+office, 0, err)
		return officeBatch{}, err
	}

	var batch officeBatch
	for _, candidate := range roster {
		if candidate.CandidateId == "" || candidate.State == "" {
			slog.DebugContext(ctx, "skipping malformed candidate record", "name", candidate.Name)
			continue
		}

		raceOffice, raceType := "U.S. House", "House"
		district := candidate.District
		if office == "S" {
			raceOffice, raceType = "U.S. Senate", "Senate"
			// senate races are statewide
			district = ""
		}

		electionYear := int64(s.opts.ElectionYear)
		res, err := s.catalog.SaveCandidate(ctx, catalog.SaveCandidateInput{
			FecCandidateID: candidate.CandidateId,
			Name:           candidate.Name,
			Party:          candidate.PartyFull,
			Office:         raceOffice,
			State:          candidate.State,
			District:       district,
			Incumbent:      candidate.Incumbent(),
			Status:         candidate.CandidateStatus,
			ElectionYear:   electionYear,
			ElectionID:     electionId,
			RaceType:       raceType,
			GeneralDate:    generalDate,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to save candidate", "fec_id", candidate.CandidateId, "err", err)
			continue
		}
		batch.candidates = append(batch.candidates, savedCandidate{
			id:     res.CandidateID,
			raceId: res.RaceID,
			name:   candidate.Name,
		})

		totals, err := s.providers.Fec.CandidateTotals(ctx, candidate.CandidateId)
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch totals", "fec_id", candidate.CandidateId, "err", err)
			continue
		}
		if totals == nil {
			continue
		}

		smallDollar := 0.0
		if totals.Receipts > 0 && totals.IndividualContributions > 0 {
			smallDollar = totals.IndividualContributions / totals.Receipts * 100
		}
		_, err = s.qry.InsertCampaignFinance(ctx, db.InsertCampaignFinanceParams{
			CandidateID:             res.CandidateID,
			TotalReceipts:           totals.Receipts,
			TotalDisbursements:      totals.Disbursements,
			CashOnHand:              totals.CashOnHand,
			TotalContributions:      totals.Contributions,
			IndividualContributions: totals.IndividualContributions,
			PacContributions:        totals.PacContributions,
			PartyContributions:      totals.PartyContributions,
			CandidateContributions:  totals.CandidateContributions,
			SmallDollarPercentage:   smallDollar,
			ReportingPeriodEnd: sql.NullString{
				String: totals.CoverageEndDate,
				Valid:  totals.CoverageEndDate != "",
			},
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to save finance record", "fec_id", candidate.CandidateId, "err", err)
			continue
		}
		batch.finances++
	}

	s.recordSource(ctx, runId, "fec_candidates_"+office, len(batch.candidates), nil)
	return batch, nil
}

func (s Service) applyRatings(ctx context.Context, runId string) int {
	ctx, span := tracer.Start(ctx, "applyRatings")
	defer span.End()

	ratings, simulated, err := s.providers.Ratings.RaceRatings(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to fetch race ratings", "err", err)
		s.recordSource(ctx, runId, "ballotpedia_ratings", 0, err)
		return 0
	}
	span.SetAttributes(attribute.Bool("simulated", simulated))

	applied := 0
	for _, rating := range ratings {
		err := s.qry.UpdateRaceRating(ctx, db.UpdateRaceRatingParams{
			Competitiveness: sql.NullFloat64{Float64: rating.Competitiveness, Valid: true},
			Rating:          sql.NullString{String: rating.Rating, Valid: true},
			State:           rating.State,
			District:        rating.District,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to apply race rating", "state", rating.State, "district", rating.District, "err", err)
			continue
		}
		applied++
	}
	s.recordSource(ctx, runId, "ballotpedia_ratings", applied, nil)
	return applied
}

// backfillOpposition pairs the top two fundraisers of every race and
// fills opponent totals, funding gap/ratio, and the finance-table
// leverage score. Races without a rating use the toss-up margin for
// leverage here; strict scoring happens later in the scoring service.
func (s Service) backfillOpposition(ctx context.Context, saved []savedCandidate) {
	ctx, span := tracer.Start(ctx, "backfillOpposition")
	defer span.End()

	competitiveness := make(map[int64]float64)
	races, err := s.qry.ListRaces(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to list races", "err", err)
		return
	}
	for _, race := range races {
		if race.Competitiveness.Valid {
			competitiveness[race.ID] = race.Competitiveness.Float64
		}
	}

	seen := make(map[int64]bool)
	for _, candidate := range saved {
		if seen[candidate.raceId] {
			continue
		}
		seen[candidate.raceId] = true

		margin, ok := competitiveness[candidate.raceId]
		if !ok {
			margin = 50
		}
		err := s.catalog.BackfillOpposition(ctx, candidate.raceId, func(receipts, opponentReceipts float64) float64 {
			return scoring.LeverageScore(receipts, opponentReceipts, margin)
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to backfill opposition", "race_id", candidate.raceId, "err", err)
		}
	}
}

func (s Service) fetchDemographics(ctx context.Context, runId string) int {
	ctx, span := tracer.Start(ctx, "fetchDemographics")
	defer span.End()

	races, err := s.qry.ListRaces(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to list races", "err", err)
		return 0
	}

	fetched := 0
	for _, race := range races {
		if fetched >= s.opts.DemographicsSample {
			break
		}
		if race.District == "" {
			continue
		}

		demographics, err := s.providers.Demographics.DistrictDemographics(ctx, race.State, race.District)
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch demographics", "state", race.State, "district", race.District, "err", err)
			continue
		}
		if demographics == nil {
			continue
		}

		err = s.qry.UpsertDistrictDemographics(ctx, db.UpsertDistrictDemographicsParams{
			State:           race.State,
			District:        race.District,
			Population:      nullInt(demographics.Population),
			MedianIncome:    nullInt(demographics.MedianIncome),
			CollegeEducated: nullInt(demographics.CollegeEducated),
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to save demographics", "state", race.State, "district", race.District, "err", err)
			continue
		}
		fetched++
	}
	s.recordSource(ctx, runId, "census_demographics", fetched, nil)
	return fetched
}

func (s Service) fetchBios(ctx context.Context, runId string, saved []savedCandidate) int {
	ctx, span := tracer.Start(ctx, "fetchBios")
	defer span.End()

	sample := saved
	if len(sample) > s.opts.BioSample {
		sample = sample[:s.opts.BioSample]
	}

	fetched := 0
	for _, candidate := range sample {
		bio, err := s.providers.Bios.CandidateBio(ctx, displayName(candidate.name))
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch bio", "name", candidate.name, "err", err)
			continue
		}
		if bio == nil {
			continue
		}

		err = s.qry.UpdateCandidateBio(ctx, db.UpdateCandidateBioParams{
			Bio:      sql.NullString{String: bio.Extract, Valid: bio.Extract != ""},
			ImageUrl: sql.NullString{String: bio.ImageUrl, Valid: bio.ImageUrl != ""},
			ID:       candidate.id,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to save bio", "name", candidate.name, "err", err)
			continue
		}
		fetched++
	}
	s.recordSource(ctx, runId, "wikipedia_bios", fetched, nil)
	return fetched
}

func (s Service) fetchCivicElections(ctx context.Context, runId string) int {
	ctx, span := tracer.Start(ctx, "fetchCivicElections")
	defer span.End()

	if s.providers.Civic == nil {
		slog.DebugContext(ctx, "google civic provider not configured, skipping")
		return 0
	}

	elections, err := s.providers.Civic.Elections(ctx)
	if errors.Is(err, googlecivic.ErrNoApiKey) {
		slog.DebugContext(ctx, "google civic api key not configured, skipping")
		return 0
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to fetch civic elections", "err", err)
		s.recordSource(ctx, runId, "google_civic_elections", 0, err)
		return 0
	}

	stored := 0
	for _, election := range elections {
		if election.ElectionDay == "" {
			continue
		}
		_, err := s.qry.UpsertElection(ctx, db.UpsertElectionParams{
			ElectionDate: election.ElectionDay,
			ElectionType: "Civic",
			Description:  election.Name,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to save civic election", "name", election.Name, "err", err)
			continue
		}
		stored++
	}
	s.recordSource(ctx, runId, "google_civic_elections", stored, nil)
	return stored
}

func (s Service) recordSource(ctx context.Context, runId, source string, records int, scrapeErr error) {
	status := "success"
	var message sql.NullString
	if scrapeErr != nil {
		status = "error"
		message = sql.NullString{String: scrapeErr.Error(), Valid: true}
	}
	err := s.qry.RecordSourceScrape(ctx, db.RecordSourceScrapeParams{
		RunID:        runId,
		SourceName:   source,
		RecordsAdded: int64(records),
		Status:       status,
		ErrorMessage: message,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to record scrape provenance", "source", source, "err", err)
	}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// FEC names come back as "LAST, FIRST"; wikipedia wants "First Last".
func displayName(fecName string) string {
	last, first, found := strings.Cut(fecName, ",")
	if !found {
		return fecName
	}
	return strings.TrimSpace(first) + " " + strings.TrimSpace(last)
}
