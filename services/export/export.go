// Package export flattens the database into the static JSON documents
// the web interface reads. The exported files are the interface
// boundary; there is no server-side api.
package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"donorscope-backend/services/catalog/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/export")

type Service struct {
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{qry: db.New(database)}
}

type Candidate struct {
	Id                      int64    `json:"id"`
	Name                    string   `json:"name"`
	Party                   string   `json:"party"`
	Office                  string   `json:"office"`
	State                   string   `json:"state"`
	District                string   `json:"district"`
	Incumbent               bool     `json:"incumbent"`
	ElectionYear            *int64   `json:"election_year"`
	Bio                     *string  `json:"bio"`
	ImageUrl                *string  `json:"image_url"`
	TotalReceipts           *float64 `json:"total_receipts"`
	TotalDisbursements      *float64 `json:"total_disbursements"`
	CashOnHand              *float64 `json:"cash_on_hand"`
	IndividualContributions *float64 `json:"individual_contributions"`
	OpponentTotalReceipts   *float64 `json:"opponent_total_receipts"`
	FundingGap              *float64 `json:"funding_gap"`
	DonationLeverageScore   *float64 `json:"donation_leverage_score"`
	SmallDollarPercentage   *float64 `json:"small_dollar_percentage"`
	OverallImpactScore      *float64 `json:"overall_impact_score"`
	CompetitivenessScore    *float64 `json:"competitiveness_score"`
	FundingLeverageScore    *float64 `json:"funding_leverage_score"`
	RecommendationTier      *string  `json:"recommendation_tier"`
}

type Race struct {
	Id                   int64    `json:"id"`
	Office               string   `json:"office"`
	RaceType             string   `json:"race_type"`
	State                string   `json:"state"`
	District             string   `json:"district"`
	GeneralDate          string   `json:"general_date"`
	CompetitivenessScore *float64 `json:"competitiveness_score"`
	Rating               *string  `json:"rating"`
	ControlImpact        bool     `json:"control_impact"`
	CandidateCount       int64    `json:"candidate_count"`
}

type Issue struct {
	Id             int64  `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	CandidateCount int64  `json:"candidate_count"`
}

type CandidateIssue struct {
	CandidateId int64  `json:"candidate_id"`
	IssueId     int64  `json:"issue_id"`
	IssueName   string `json:"issue_name"`
	Position    string `json:"position"`
	Strength    string `json:"strength"`
	Priority    *int64 `json:"priority"`
}

type Demographics struct {
	State           string `json:"state"`
	District        string `json:"district"`
	Population      *int64 `json:"population"`
	MedianIncome    *int64 `json:"median_income"`
	CollegeEducated *int64 `json:"college_educated"`
}

type Stats struct {
	TotalCandidates      int    `json:"total_candidates"`
	TotalRaces           int    `json:"total_races"`
	TotalIssues          int    `json:"total_issues"`
	HighImpactCandidates int    `json:"high_impact_candidates"`
	CompetitiveRaces     int    `json:"competitive_races"`
	LastUpdated          string `json:"last_updated"`
}

// Candidates returns the flattened candidate list, ordered by overall
// impact score descending with unscored candidates last.
func (s Service) Candidates(ctx context.Context) ([]Candidate, error) {
	rows, err := s.qry.ListCandidateExport(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, Candidate{
			Id:                      row.ID,
			Name:                    row.Name,
			Party:                   row.Party,
			Office:                  row.Office,
			State:                   row.State,
			District:                row.District,
			Incumbent:               row.Incumbent,
			ElectionYear:            nullableInt(row.ElectionYear),
			Bio:                     nullableString(row.Bio),
			ImageUrl:                nullableString(row.ImageUrl),
			TotalReceipts:           nullableFloat(row.TotalReceipts),
			TotalDisbursements:      nullableFloat(row.TotalDisbursements),
			CashOnHand:              nullableFloat(row.CashOnHand),
			IndividualContributions: nullableFloat(row.IndividualContributions),
			OpponentTotalReceipts:   nullableFloat(row.OpponentTotalReceipts),
			FundingGap:              nullableFloat(row.FundingGap),
			DonationLeverageScore:   nullableFloat(row.DonationLeverageScore),
			SmallDollarPercentage:   nullableFloat(row.SmallDollarPercentage),
			OverallImpactScore:      nullableFloat(row.OverallImpactScore),
			CompetitivenessScore:    nullableFloat(row.CompetitivenessScore),
			FundingLeverageScore:    nullableFloat(row.FundingLeverageScore),
			RecommendationTier:      nullableString(row.RecommendationTier),
		})
	}
	return candidates, nil
}

// Export writes all six documents into outDir and returns the summary
// statistics it computed.
func (s Service) Export(ctx context.Context, outDir string) (Stats, error) {
	ctx, span := tracer.Start(ctx, "Export")
	defer span.End()

	span.SetAttributes(attribute.String("out_dir", outDir))

	err := os.MkdirAll(outDir, 0o755)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Stats{}, err
	}

	candidates, err := s.Candidates(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Stats{}, err
	}

	raceRows, err := s.qry.ListRaceExport(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Stats{}, err
	}
	races := make([]Race, 0, len(raceRows))
	for _, row := range raceRows {
		races = append(races, Race{
			Id:                   row.ID,
			Office:               row.Office,
			RaceType:             row.RaceType,
			State:                row.State,
			District:             row.District,
			GeneralDate:          row.GeneralDate,
			CompetitivenessScore: nullableFloat(row.Competitiveness),
			Rating:               nullableString(row.Rating),
			ControlImpact:        row.ControlImpact,
			CandidateCount:       row.CandidateCount,
		})
	}

	issueRows, err := s.qry.ListIssueExport(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Stats{}, err
	}
	issues := make([]Issue, 0, len(issueRows))
	for _, row := range issueRows {
		issues = append(issues, Issue{
			Id:             row.ID,
			Name:           row.Name,
			Category:       row.Category,
			Description:    row.Description,
			CandidateCount: row.CandidateCount,
		})
	}

	linkRows, err := s.qry.ListCandidateIssueExport(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Stats{}, err
	}
	links := make([]CandidateIssue, 0, len(linkRows))
	for _, row := range linkRows {
		links = append(links, CandidateIssue{
			CandidateId: row.CandidateID,
			IssueId:     row.IssueID,
			IssueName:   row.IssueName,
			Position:    row.Position,
			Strength:    row.Strength,
			Priority:    nullableInt(row.Priority),
		})
	}

	demoRows, err := s.qry.ListDemographicsExport(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Stats{}, err
	}
	demographics := make([]Demographics, 0, len(demoRows))
	for _, row := range demoRows {
		demographics = append(demographics, Demographics{
			State:           row.State,
			District:        row.District,
			Population:      nullableInt(row.Population),
			MedianIncome:    nullableInt(row.MedianIncome),
			CollegeEducated: nullableInt(row.CollegeEducated),
		})
	}

	stats := Stats{
		TotalCandidates: len(candidates),
		TotalRaces:      len(races),
		TotalIssues:     len(issues),
		LastUpdated:     time.Now().UTC().Format(time.RFC3339),
	}
	for _, c := range candidates {
		if c.OverallImpactScore != nil && *c.OverallImpactScore >= 75 {
			stats.HighImpactCandidates++
		}
	}
	for _, r := range races {
		if r.CompetitivenessScore != nil && *r.CompetitivenessScore >= 45 {
			stats.CompetitiveRaces++
		}
	}

	documents := []struct {
		name string
		data any
	}{
		{"candidates.json", candidates},
		{"races.json", races},
		{"issues.json", issues},
		{"candidate-issues.json", links},
		{"demographics.json", demographics},
		{"stats.json", stats},
	}
	for _, doc := range documents {
		err := writeDocument(filepath.Join(outDir, doc.name), doc.data)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Stats{}, err
		}
	}
	return stats, nil
}

func writeDocument(path string, data any) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	err = os.WriteFile(path, encoded, 0o644)
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullableInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
