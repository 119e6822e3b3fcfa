package catalog

import (
	"context"
	"database/sql"
	"strings"

	"donorscope-backend/services/catalog/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/catalog")

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

func (s Service) Queries() *db.Queries {
	return s.qry
}

// the fixed issue catalog, assigned to candidates by party below
var seedIssues = []db.CreateIssueParams{
	{Name: "Climate Change", Category: "Environment", Description: "Policies related to climate action and environmental protection"},
	{Name: "Healthcare Access", Category: "Healthcare", Description: "Universal healthcare, insurance reform, and medical costs"},
	{Name: "Immigration Reform", Category: "Immigration", Description: "Border policy, pathways to citizenship, and refugee policy"},
	{Name: "Economic Justice", Category: "Economy", Description: "Wealth inequality, minimum wage, and economic opportunity"},
	{Name: "Crime & Safety", Category: "Justice", Description: "Criminal justice reform, policing, and public safety"},
	{Name: "Education", Category: "Education", Description: "Public education funding, student debt, and education access"},
	{Name: "Reproductive Rights", Category: "Healthcare", Description: "Abortion access and reproductive healthcare"},
	{Name: "Gun Control", Category: "Justice", Description: "Gun safety legislation and Second Amendment rights"},
	{Name: "Voting Rights", Category: "Democracy", Description: "Voter access, election security, and gerrymandering"},
	{Name: "Housing Affordability", Category: "Economy", Description: "Affordable housing, rent control, and homelessness"},
	{Name: "Labor Rights", Category: "Economy", Description: "Union rights, worker protections, and fair wages"},
	{Name: "LGBTQ+ Rights", Category: "Civil Rights", Description: "LGBTQ+ protections and equality"},
	{Name: "Racial Justice", Category: "Civil Rights", Description: "Systemic racism, police reform, and equity"},
	{Name: "Foreign Policy", Category: "International", Description: "Military intervention, diplomacy, and international relations"},
	{Name: "Infrastructure", Category: "Economy", Description: "Roads, bridges, broadband, and public works"},
}

func (s Service) SeedIssues(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "SeedIssues")
	defer span.End()

	for _, issue := range seedIssues {
		err := s.qry.CreateIssue(ctx, issue)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	return nil
}

var democraticPriorities = []string{
	"Climate Change", "Healthcare Access", "Economic Justice",
	"Reproductive Rights", "LGBTQ+ Rights", "Voting Rights",
}

var republicanPriorities = []string{
	"Crime & Safety", "Immigration Reform", "Economic Justice",
	"Gun Control", "Foreign Policy",
}

// AssignPartyIssues links a candidate to the priority issues of their
// party. This is a stand-in until positions are scraped from candidate
// websites and voting records.
func (s Service) AssignPartyIssues(ctx context.Context, candidateId int64, party string) error {
	ctx, span := tracer.Start(ctx, "AssignPartyIssues")
	defer span.End()

	span.SetAttributes(attribute.String("party", party))

	var priorities []string
	switch {
	case strings.Contains(strings.ToUpper(party), "DEMOCRATIC"):
		priorities = democraticPriorities
	case strings.Contains(strings.ToUpper(party), "REPUBLICAN"):
		priorities = republicanPriorities
	default:
		return nil
	}

	issues, err := s.qry.ListIssues(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	byName := make(map[string]int64, len(issues))
	for _, issue := range issues {
		byName[issue.Name] = issue.ID
	}

	for rank, name := range priorities {
		issueId, ok := byName[name]
		if !ok {
			continue
		}
		err := s.qry.UpsertCandidateIssue(ctx, db.UpsertCandidateIssueParams{
			CandidateID: candidateId,
			IssueID:     issueId,
			Position:    "Support",
			Strength:    "Strong",
			Priority:    sql.NullInt64{Int64: int64(rank + 1), Valid: true},
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	return nil
}

type SaveCandidateInput struct {
	FecCandidateID string
	Name           string
	Party          string
	Office         string
	State          string
	District       string
	Incumbent      bool
	Status         string
	ElectionYear   int64
	ElectionID     int64
	RaceType       string
	GeneralDate    string
}

type SaveCandidateResult struct {
	CandidateID int64
	RaceID      int64
}

// SaveCandidate upserts a candidate, upserts the race they run in,
// links the two, and assigns party issues, all in one transaction.
func (s Service) SaveCandidate(ctx context.Context, input SaveCandidateInput) (SaveCandidateResult, error) {
	ctx, span := tracer.Start(ctx, "SaveCandidate")
	defer span.End()

	span.SetAttributes(attribute.String("fec_candidate_id", input.FecCandidateID))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SaveCandidateResult{}, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	candidateId, err := txqry.UpsertCandidate(ctx, db.UpsertCandidateParams{
		FecCandidateID: input.FecCandidateID,
		Name:           input.Name,
		Party:          input.Party,
		Office:         input.Office,
		State:          input.State,
		District:       input.District,
		Incumbent:      input.Incumbent,
		Status:         input.Status,
		ElectionYear:   sql.NullInt64{Int64: input.ElectionYear, Valid: input.ElectionYear != 0},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SaveCandidateResult{}, err
	}

	raceId, err := txqry.UpsertRace(ctx, db.UpsertRaceParams{
		ElectionID:  sql.NullInt64{Int64: input.ElectionID, Valid: input.ElectionID != 0},
		Office:      input.Office,
		RaceType:    input.RaceType,
		State:       input.State,
		District:    input.District,
		GeneralDate: input.GeneralDate,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SaveCandidateResult{}, err
	}

	err = txqry.LinkRaceCandidate(ctx, db.LinkRaceCandidateParams{
		RaceID:      raceId,
		CandidateID: candidateId,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SaveCandidateResult{}, err
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SaveCandidateResult{}, err
	}

	err = s.AssignPartyIssues(ctx, candidateId, input.Party)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SaveCandidateResult{}, err
	}

	return SaveCandidateResult{CandidateID: candidateId, RaceID: raceId}, nil
}

// BackfillOpposition pairs the top two fundraisers in a race and fills
// each side's opponent totals, funding gap, funding ratio, and the
// leverage score computed by the caller.
func (s Service) BackfillOpposition(ctx context.Context, raceId int64, leverage func(receipts, opponentReceipts float64) float64) error {
	ctx, span := tracer.Start(ctx, "BackfillOpposition")
	defer span.End()

	span.SetAttributes(attribute.Int64("race_id", raceId))

	receipts, err := s.qry.ListRaceReceipts(ctx, raceId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if len(receipts) < 2 {
		return nil
	}

	top, second := receipts[0], receipts[1]
	pairs := []struct {
		self, opponent db.RaceReceiptsRow
	}{
		{top, second},
		{second, top},
	}
	for _, p := range pairs {
		gap := p.self.TotalReceipts - p.opponent.TotalReceipts
		update := db.UpdateFinanceOppositionParams{
			OpponentTotalReceipts: sql.NullFloat64{Float64: p.opponent.TotalReceipts, Valid: true},
			FundingGap:            sql.NullFloat64{Float64: gap, Valid: true},
			ID:                    p.self.FinanceID,
		}
		if p.opponent.TotalReceipts > 0 {
			ratio := p.self.TotalReceipts / p.opponent.TotalReceipts
			update.FundingRatio = sql.NullFloat64{Float64: ratio, Valid: true}
			if leverage != nil {
				update.DonationLeverageScore = sql.NullFloat64{
					Float64: leverage(p.self.TotalReceipts, p.opponent.TotalReceipts),
					Valid:   true,
				}
			}
		}
		err := s.qry.UpdateFinanceOpposition(ctx, update)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	return nil
}
