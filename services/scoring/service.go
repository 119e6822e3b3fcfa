package scoring

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"donorscope-backend/services/catalog/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/scoring")

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

// Recompute rewrites the impact score table in full from the current
// candidate, race, and finance data. Candidates without the inputs
// needed to score are skipped, not defaulted.
func (s Service) Recompute(ctx context.Context) (scored, skipped int, err error) {
	ctx, span := tracer.Start(ctx, "Recompute")
	defer span.End()

	pairs, err := s.qry.ListScoringPairs(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, 0, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.DeleteAllImpactScores(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, 0, err
	}

	for _, pair := range pairs {
		result, err := Score(scoringInputs(pair))
		if errors.Is(err, ErrInsufficientData) {
			slog.DebugContext(
				ctx, "skipping candidate",
				"candidate_id", pair.CandidateID,
				"race_id", pair.RaceID,
				"reason", err,
			)
			skipped++
			continue
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, 0, err
		}

		err = txqry.ReplaceImpactScore(ctx, db.ReplaceImpactScoreParams{
			CandidateID:              pair.CandidateID,
			RaceID:                   pair.RaceID,
			CompetitivenessScore:     result.Competitiveness,
			FundingLeverageScore:     result.Leverage,
			ControlImpactScore:       result.Control,
			GrassrootsPotentialScore: result.Grassroots,
			OverallImpactScore:       result.Impact,
			RecommendationTier:       result.Tier,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, 0, err
		}
		scored++
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, 0, err
	}

	span.SetAttributes(
		attribute.Int("scored", scored),
		attribute.Int("skipped", skipped),
	)
	return scored, skipped, nil
}

func scoringInputs(pair db.ScoringPairRow) Inputs {
	in := Inputs{
		ChamberControl: pair.ControlImpact,
		Incumbent:      pair.Incumbent,
	}
	if pair.Competitiveness.Valid {
		m := pair.Competitiveness.Float64
		in.Competitiveness = &m
	}
	if pair.TotalReceipts.Valid {
		finance := &Finance{
			TotalReceipts: pair.TotalReceipts.Float64,
		}
		if pair.OpponentTotalReceipts.Valid {
			opp := pair.OpponentTotalReceipts.Float64
			finance.OpponentReceipts = &opp
		}
		if pair.SmallDollarPercentage.Valid {
			finance.SmallDollarPercentage = pair.SmallDollarPercentage.Float64
		}
		in.Finance = finance
	}
	return in
}
