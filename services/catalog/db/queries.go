package db

import (
	"context"
	"database/sql"
)

const upsertElection = `
INSERT INTO elections (election_date, election_type, description)
VALUES (?, ?, ?)
ON CONFLICT(election_date, election_type, state, district)
DO UPDATE SET updated_at = CURRENT_TIMESTAMP
RETURNING id
`

type UpsertElectionParams struct {
	ElectionDate string
	ElectionType string
	Description  string
}

func (q *Queries) UpsertElection(ctx context.Context, arg UpsertElectionParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertElection, arg.ElectionDate, arg.ElectionType, arg.Description)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const upsertCandidate = `
INSERT INTO candidates (
    fec_candidate_id, name, party, office, state, district,
    incumbent, candidate_status, election_year
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(fec_candidate_id) DO UPDATE SET
    name = excluded.name,
    party = excluded.party,
    office = excluded.office,
    state = excluded.state,
    district = excluded.district,
    incumbent = excluded.incumbent,
    candidate_status = excluded.candidate_status,
    election_year = excluded.election_year,
    updated_at = CURRENT_TIMESTAMP
RETURNING id
`

type UpsertCandidateParams struct {
	FecCandidateID string
	Name           string
	Party          string
	Office         string
	State          string
	District       string
	Incumbent      bool
	Status         string
	ElectionYear   sql.NullInt64
}

func (q *Queries) UpsertCandidate(ctx context.Context, arg UpsertCandidateParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertCandidate,
		arg.FecCandidateID, arg.Name, arg.Party, arg.Office, arg.State,
		arg.District, arg.Incumbent, arg.Status, arg.ElectionYear,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateCandidateBio = `
UPDATE candidates
SET bio = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

type UpdateCandidateBioParams struct {
	Bio      sql.NullString
	ImageUrl sql.NullString
	ID       int64
}

func (q *Queries) UpdateCandidateBio(ctx context.Context, arg UpdateCandidateBioParams) error {
	_, err := q.db.ExecContext(ctx, updateCandidateBio, arg.Bio, arg.ImageUrl, arg.ID)
	return err
}

const getCandidate = `
SELECT id, fec_candidate_id, name, party, office, state, district,
       incumbent, candidate_status, election_year, bio, image_url, website_url
FROM candidates WHERE id = ?
`

func (q *Queries) GetCandidate(ctx context.Context, id int64) (Candidate, error) {
	row := q.db.QueryRowContext(ctx, getCandidate, id)
	var c Candidate
	err := row.Scan(
		&c.ID, &c.FecCandidateID, &c.Name, &c.Party, &c.Office, &c.State,
		&c.District, &c.Incumbent, &c.Status, &c.ElectionYear,
		&c.Bio, &c.ImageUrl, &c.WebsiteUrl,
	)
	return c, err
}

const upsertRace = `
INSERT INTO races (election_id, office, race_type, state, district, general_date)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(office, state, district, general_date)
DO UPDATE SET updated_at = CURRENT_TIMESTAMP
RETURNING id
`

type UpsertRaceParams struct {
	ElectionID  sql.NullInt64
	Office      string
	RaceType    string
	State       string
	District    string
	GeneralDate string
}

func (q *Queries) UpsertRace(ctx context.Context, arg UpsertRaceParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertRace,
		arg.ElectionID, arg.Office, arg.RaceType, arg.State, arg.District, arg.GeneralDate,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateRaceRating = `
UPDATE races
SET competitiveness_score = ?, rating = ?, updated_at = CURRENT_TIMESTAMP
WHERE state = ? AND district = ?
`

type UpdateRaceRatingParams struct {
	Competitiveness sql.NullFloat64
	Rating          sql.NullString
	State           string
	District        string
}

func (q *Queries) UpdateRaceRating(ctx context.Context, arg UpdateRaceRatingParams) error {
	_, err := q.db.ExecContext(ctx, updateRaceRating,
		arg.Competitiveness, arg.Rating, arg.State, arg.District,
	)
	return err
}

const setRaceControlImpact = `
UPDATE races
SET control_impact = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

type SetRaceControlImpactParams struct {
	ControlImpact bool
	ID            int64
}

func (q *Queries) SetRaceControlImpact(ctx context.Context, arg SetRaceControlImpactParams) error {
	_, err := q.db.ExecContext(ctx, setRaceControlImpact, arg.ControlImpact, arg.ID)
	return err
}

const linkRaceCandidate = `
INSERT OR IGNORE INTO race_candidates (race_id, candidate_id)
VALUES (?, ?)
`

type LinkRaceCandidateParams struct {
	RaceID      int64
	CandidateID int64
}

func (q *Queries) LinkRaceCandidate(ctx context.Context, arg LinkRaceCandidateParams) error {
	_, err := q.db.ExecContext(ctx, linkRaceCandidate, arg.RaceID, arg.CandidateID)
	return err
}

const insertCampaignFinance = `
INSERT INTO campaign_finance (
    candidate_id, total_receipts, total_disbursements, cash_on_hand,
    total_contributions, individual_contributions, pac_contributions,
    party_contributions, candidate_contributions, small_dollar_percentage,
    reporting_period_end
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type InsertCampaignFinanceParams struct {
	CandidateID             int64
	TotalReceipts           float64
	TotalDisbursements      float64
	CashOnHand              float64
	TotalContributions      float64
	IndividualContributions float64
	PacContributions        float64
	PartyContributions      float64
	CandidateContributions  float64
	SmallDollarPercentage   float64
	ReportingPeriodEnd      sql.NullString
}

func (q *Queries) InsertCampaignFinance(ctx context.Context, arg InsertCampaignFinanceParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertCampaignFinance,
		arg.CandidateID, arg.TotalReceipts, arg.TotalDisbursements,
		arg.CashOnHand, arg.TotalContributions, arg.IndividualContributions,
		arg.PacContributions, arg.PartyContributions, arg.CandidateContributions,
		arg.SmallDollarPercentage, arg.ReportingPeriodEnd,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getLatestCampaignFinance = `
SELECT id, candidate_id, total_receipts, total_disbursements, cash_on_hand,
       total_contributions, individual_contributions, pac_contributions,
       party_contributions, candidate_contributions, opponent_total_receipts,
       funding_gap, funding_ratio, donation_leverage_score,
       small_dollar_percentage, reporting_period_end
FROM campaign_finance
WHERE candidate_id = ?
ORDER BY id DESC LIMIT 1
`

func (q *Queries) GetLatestCampaignFinance(ctx context.Context, candidateID int64) (CampaignFinance, error) {
	row := q.db.QueryRowContext(ctx, getLatestCampaignFinance, candidateID)
	var f CampaignFinance
	err := row.Scan(
		&f.ID, &f.CandidateID, &f.TotalReceipts, &f.TotalDisbursements,
		&f.CashOnHand, &f.TotalContributions, &f.IndividualContributions,
		&f.PacContributions, &f.PartyContributions, &f.CandidateContributions,
		&f.OpponentTotalReceipts, &f.FundingGap, &f.FundingRatio,
		&f.DonationLeverageScore, &f.SmallDollarPercentage, &f.ReportingPeriodEnd,
	)
	return f, err
}

const updateFinanceOpposition = `
UPDATE campaign_finance
SET opponent_total_receipts = ?, funding_gap = ?, funding_ratio = ?,
    donation_leverage_score = ?, last_updated = CURRENT_TIMESTAMP
WHERE id = ?
`

type UpdateFinanceOppositionParams struct {
	OpponentTotalReceipts sql.NullFloat64
	FundingGap            sql.NullFloat64
	FundingRatio          sql.NullFloat64
	DonationLeverageScore sql.NullFloat64
	ID                    int64
}

func (q *Queries) UpdateFinanceOpposition(ctx context.Context, arg UpdateFinanceOppositionParams) error {
	_, err := q.db.ExecContext(ctx, updateFinanceOpposition,
		arg.OpponentTotalReceipts, arg.FundingGap, arg.FundingRatio,
		arg.DonationLeverageScore, arg.ID,
	)
	return err
}

// the latest filing per candidate in a race, used to pair opponents
const listRaceReceipts = `
SELECT rc.candidate_id, cf.id, cf.total_receipts
FROM race_candidates rc
JOIN campaign_finance cf ON cf.id = (
    SELECT id FROM campaign_finance
    WHERE candidate_id = rc.candidate_id
    ORDER BY id DESC LIMIT 1
)
WHERE rc.race_id = ?
ORDER BY cf.total_receipts DESC
`

type RaceReceiptsRow struct {
	CandidateID   int64
	FinanceID     int64
	TotalReceipts float64
}

func (q *Queries) ListRaceReceipts(ctx context.Context, raceID int64) ([]RaceReceiptsRow, error) {
	rows, err := q.db.QueryContext(ctx, listRaceReceipts, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RaceReceiptsRow
	for rows.Next() {
		var r RaceReceiptsRow
		err := rows.Scan(&r.CandidateID, &r.FinanceID, &r.TotalReceipts)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const listRaces = `
SELECT id, election_id, office, race_type, state, district, general_date,
       competitiveness_score, rating, control_impact
FROM races
ORDER BY state, district
`

func (q *Queries) ListRaces(ctx context.Context) ([]Race, error) {
	rows, err := q.db.QueryContext(ctx, listRaces)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Race
	for rows.Next() {
		var r Race
		err := rows.Scan(
			&r.ID, &r.ElectionID, &r.Office, &r.RaceType, &r.State,
			&r.District, &r.GeneralDate, &r.Competitiveness, &r.Rating,
			&r.ControlImpact,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const createIssue = `
INSERT OR IGNORE INTO issues (name, category, description)
VALUES (?, ?, ?)
`

type CreateIssueParams struct {
	Name        string
	Category    string
	Description string
}

func (q *Queries) CreateIssue(ctx context.Context, arg CreateIssueParams) error {
	_, err := q.db.ExecContext(ctx, createIssue, arg.Name, arg.Category, arg.Description)
	return err
}

const listIssues = `
SELECT id, name, category, description FROM issues ORDER BY category, name
`

func (q *Queries) ListIssues(ctx context.Context) ([]Issue, error) {
	rows, err := q.db.QueryContext(ctx, listIssues)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Issue
	for rows.Next() {
		var i Issue
		err := rows.Scan(&i.ID, &i.Name, &i.Category, &i.Description)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

const upsertCandidateIssue = `
INSERT OR IGNORE INTO candidate_issues (candidate_id, issue_id, position, strength, priority)
VALUES (?, ?, ?, ?, ?)
`

type UpsertCandidateIssueParams struct {
	CandidateID int64
	IssueID     int64
	Position    string
	Strength    string
	Priority    sql.NullInt64
}

func (q *Queries) UpsertCandidateIssue(ctx context.Context, arg UpsertCandidateIssueParams) error {
	_, err := q.db.ExecContext(ctx, upsertCandidateIssue,
		arg.CandidateID, arg.IssueID, arg.Position, arg.Strength, arg.Priority,
	)
	return err
}

const upsertDistrictDemographics = `
INSERT INTO district_demographics (state, district, population, median_income, college_educated)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(state, district) DO UPDATE SET
    population = excluded.population,
    median_income = excluded.median_income,
    college_educated = excluded.college_educated
`

type UpsertDistrictDemographicsParams struct {
	State           string
	District        string
	Population      sql.NullInt64
	MedianIncome    sql.NullInt64
	CollegeEducated sql.NullInt64
}

func (q *Queries) UpsertDistrictDemographics(ctx context.Context, arg UpsertDistrictDemographicsParams) error {
	_, err := q.db.ExecContext(ctx, upsertDistrictDemographics,
		arg.State, arg.District, arg.Population, arg.MedianIncome, arg.CollegeEducated,
	)
	return err
}

const recordSourceScrape = `
INSERT INTO data_sources (run_id, source_name, source_url, records_added, status, error_message)
VALUES (?, ?, ?, ?, ?, ?)
`

type RecordSourceScrapeParams struct {
	RunID        string
	SourceName   string
	SourceUrl    string
	RecordsAdded int64
	Status       string
	ErrorMessage sql.NullString
}

func (q *Queries) RecordSourceScrape(ctx context.Context, arg RecordSourceScrapeParams) error {
	_, err := q.db.ExecContext(ctx, recordSourceScrape,
		arg.RunID, arg.SourceName, arg.SourceUrl, arg.RecordsAdded,
		arg.Status, arg.ErrorMessage,
	)
	return err
}

// every candidate-race pair with the inputs scoring needs. finance
// fields are null when the candidate has no filing on record.
const listScoringPairs = `
SELECT rc.race_id, rc.candidate_id,
       r.competitiveness_score, r.control_impact,
       c.incumbent,
       cf.total_receipts, cf.opponent_total_receipts, cf.small_dollar_percentage
FROM race_candidates rc
JOIN candidates c ON c.id = rc.candidate_id
JOIN races r ON r.id = rc.race_id
LEFT JOIN campaign_finance cf ON cf.id = (
    SELECT id FROM campaign_finance
    WHERE candidate_id = rc.candidate_id
    ORDER BY id DESC LIMIT 1
)
ORDER BY rc.race_id, rc.candidate_id
`

type ScoringPairRow struct {
	RaceID                int64
	CandidateID           int64
	Competitiveness       sql.NullFloat64
	ControlImpact         bool
	Incumbent             bool
	TotalReceipts         sql.NullFloat64
	OpponentTotalReceipts sql.NullFloat64
	SmallDollarPercentage sql.NullFloat64
}

func (q *Queries) ListScoringPairs(ctx context.Context) ([]ScoringPairRow, error) {
	rows, err := q.db.QueryContext(ctx, listScoringPairs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScoringPairRow
	for rows.Next() {
		var r ScoringPairRow
		err := rows.Scan(
			&r.RaceID, &r.CandidateID, &r.Competitiveness, &r.ControlImpact,
			&r.Incumbent, &r.TotalReceipts, &r.OpponentTotalReceipts,
			&r.SmallDollarPercentage,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const getImpactScore = `
SELECT id, candidate_id, race_id, competitiveness_score,
       funding_leverage_score, control_impact_score,
       grassroots_potential_score, overall_impact_score,
       recommendation_tier, calculated_at
FROM impact_scores
WHERE candidate_id = ? AND race_id = ?
`

type GetImpactScoreParams struct {
	CandidateID int64
	RaceID      int64
}

func (q *Queries) GetImpactScore(ctx context.Context, arg GetImpactScoreParams) (ImpactScore, error) {
	row := q.db.QueryRowContext(ctx, getImpactScore, arg.CandidateID, arg.RaceID)
	var s ImpactScore
	err := row.Scan(
		&s.ID, &s.CandidateID, &s.RaceID, &s.CompetitivenessScore,
		&s.FundingLeverageScore, &s.ControlImpactScore,
		&s.GrassrootsPotentialScore, &s.OverallImpactScore,
		&s.RecommendationTier, &s.CalculatedAt,
	)
	return s, err
}

const deleteAllImpactScores = `DELETE FROM impact_scores`

func (q *Queries) DeleteAllImpactScores(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllImpactScores)
	return err
}

const replaceImpactScore = `
INSERT OR REPLACE INTO impact_scores (
    candidate_id, race_id, competitiveness_score, funding_leverage_score,
    control_impact_score, grassroots_potential_score, overall_impact_score,
    recommendation_tier
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type ReplaceImpactScoreParams struct {
	CandidateID              int64
	RaceID                   int64
	CompetitivenessScore     float64
	FundingLeverageScore     float64
	ControlImpactScore       float64
	GrassrootsPotentialScore float64
	OverallImpactScore       float64
	RecommendationTier       string
}

func (q *Queries) ReplaceImpactScore(ctx context.Context, arg ReplaceImpactScoreParams) error {
	_, err := q.db.ExecContext(ctx, replaceImpactScore,
		arg.CandidateID, arg.RaceID, arg.CompetitivenessScore,
		arg.FundingLeverageScore, arg.ControlImpactScore,
		arg.GrassrootsPotentialScore, arg.OverallImpactScore,
		arg.RecommendationTier,
	)
	return err
}
