package db

import (
	"context"
	"database/sql"
)

const listCandidateExport = `
SELECT c.id, c.name, c.party, c.office, c.state, c.district,
       c.incumbent, c.election_year, c.bio, c.image_url,
       cf.total_receipts, cf.total_disbursements, cf.cash_on_hand,
       cf.individual_contributions, cf.opponent_total_receipts,
       cf.funding_gap, cf.donation_leverage_score, cf.small_dollar_percentage,
       ims.overall_impact_score, ims.competitiveness_score,
       ims.funding_leverage_score, ims.recommendation_tier
FROM candidates c
LEFT JOIN campaign_finance cf ON cf.id = (
    SELECT id FROM campaign_finance
    WHERE candidate_id = c.id
    ORDER BY id DESC LIMIT 1
)
LEFT JOIN impact_scores ims ON ims.candidate_id = c.id
ORDER BY ims.overall_impact_score DESC
`

type CandidateExportRow struct {
	ID                      int64
	Name                    string
	Party                   string
	Office                  string
	State                   string
	District                string
	Incumbent               bool
	ElectionYear            sql.NullInt64
	Bio                     sql.NullString
	ImageUrl                sql.NullString
	TotalReceipts           sql.NullFloat64
	TotalDisbursements      sql.NullFloat64
	CashOnHand              sql.NullFloat64
	IndividualContributions sql.NullFloat64
	OpponentTotalReceipts   sql.NullFloat64
	FundingGap              sql.NullFloat64
	DonationLeverageScore   sql.NullFloat64
	SmallDollarPercentage   sql.NullFloat64
	OverallImpactScore      sql.NullFloat64
	CompetitivenessScore    sql.NullFloat64
	FundingLeverageScore    sql.NullFloat64
	RecommendationTier      sql.NullString
}

func (q *Queries) ListCandidateExport(ctx context.Context) ([]CandidateExportRow, error) {
	rows, err := q.db.QueryContext(ctx, listCandidateExport)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CandidateExportRow
	for rows.Next() {
		var r CandidateExportRow
		err := rows.Scan(
			&r.ID, &r.Name, &r.Party, &r.Office, &r.State, &r.District,
			&r.Incumbent, &r.ElectionYear, &r.Bio, &r.ImageUrl,
			&r.TotalReceipts, &r.TotalDisbursements, &r.CashOnHand,
			&r.IndividualContributions, &r.OpponentTotalReceipts,
			&r.FundingGap, &r.DonationLeverageScore, &r.SmallDollarPercentage,
			&r.OverallImpactScore, &r.CompetitivenessScore,
			&r.FundingLeverageScore, &r.RecommendationTier,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const listRaceExport = `
SELECT r.id, r.office, r.race_type, r.state, r.district, r.general_date,
       r.competitiveness_score, r.rating, r.control_impact,
       COUNT(rc.candidate_id) AS candidate_count
FROM races r
LEFT JOIN race_candidates rc ON rc.race_id = r.id
GROUP BY r.id
ORDER BY r.state, r.district
`

type RaceExportRow struct {
	ID              int64
	Office          string
	RaceType        string
	State           string
	District        string
	GeneralDate     string
	Competitiveness sql.NullFloat64
	Rating          sql.NullString
	ControlImpact   bool
	CandidateCount  int64
}

func (q *Queries) ListRaceExport(ctx context.Context) ([]RaceExportRow, error) {
	rows, err := q.db.QueryContext(ctx, listRaceExport)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RaceExportRow
	for rows.Next() {
		var r RaceExportRow
		err := rows.Scan(
			&r.ID, &r.Office, &r.RaceType, &r.State, &r.District,
			&r.GeneralDate, &r.Competitiveness, &r.Rating, &r.ControlImpact,
			&r.CandidateCount,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const listIssueExport = `
SELECT i.id, i.name, i.category, i.description,
       COUNT(ci.candidate_id) AS candidate_count
FROM issues i
LEFT JOIN candidate_issues ci ON ci.issue_id = i.id
GROUP BY i.id
ORDER BY i.category, i.name
`

type IssueExportRow struct {
	ID             int64
	Name           string
	Category       string
	Description    string
	CandidateCount int64
}

func (q *Queries) ListIssueExport(ctx context.Context) ([]IssueExportRow, error) {
	rows, err := q.db.QueryContext(ctx, listIssueExport)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IssueExportRow
	for rows.Next() {
		var r IssueExportRow
		err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.Description, &r.CandidateCount)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const listCandidateIssueExport = `
SELECT ci.candidate_id, ci.issue_id, i.name AS issue_name,
       ci.position, ci.strength, ci.priority
FROM candidate_issues ci
JOIN issues i ON i.id = ci.issue_id
ORDER BY ci.candidate_id, ci.priority
`

type CandidateIssueExportRow struct {
	CandidateID int64
	IssueID     int64
	IssueName   string
	Position    string
	Strength    string
	Priority    sql.NullInt64
}

func (q *Queries) ListCandidateIssueExport(ctx context.Context) ([]CandidateIssueExportRow, error) {
	rows, err := q.db.QueryContext(ctx, listCandidateIssueExport)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CandidateIssueExportRow
	for rows.Next() {
		var r CandidateIssueExportRow
		err := rows.Scan(&r.CandidateID, &r.IssueID, &r.IssueName, &r.Position, &r.Strength, &r.Priority)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const listDemographicsExport = `
SELECT state, district, population, median_income, college_educated
FROM district_demographics
ORDER BY state, district
`

func (q *Queries) ListDemographicsExport(ctx context.Context) ([]DistrictDemographics, error) {
	rows, err := q.db.QueryContext(ctx, listDemographicsExport)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DistrictDemographics
	for rows.Next() {
		var d DistrictDemographics
		err := rows.Scan(&d.State, &d.District, &d.Population, &d.MedianIncome, &d.CollegeEducated)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
