package db

import "database/sql"

type Candidate struct {
	ID             int64
	FecCandidateID sql.NullString
	Name           string
	Party          string
	Office         string
	State          string
	District       string
	Incumbent      bool
	Status         string
	ElectionYear   sql.NullInt64
	Bio            sql.NullString
	ImageUrl       sql.NullString
	WebsiteUrl     sql.NullString
}

type Race struct {
	ID              int64
	ElectionID      sql.NullInt64
	Office          string
	RaceType        string
	State           string
	District        string
	GeneralDate     string
	Competitiveness sql.NullFloat64
	Rating          sql.NullString
	ControlImpact   bool
}

type Issue struct {
	ID          int64
	Name        string
	Category    string
	Description string
}

type CampaignFinance struct {
	ID                      int64
	CandidateID             int64
	TotalReceipts           float64
	TotalDisbursements      float64
	CashOnHand              float64
	TotalContributions      float64
	IndividualContributions float64
	PacContributions        float64
	PartyContributions      float64
	CandidateContributions  float64
	OpponentTotalReceipts   sql.NullFloat64
	FundingGap              sql.NullFloat64
	FundingRatio            sql.NullFloat64
	DonationLeverageScore   sql.NullFloat64
	SmallDollarPercentage   float64
	ReportingPeriodEnd      sql.NullString
}

type DistrictDemographics struct {
	ID              int64
	State           string
	District        string
	Population      sql.NullInt64
	MedianIncome    sql.NullInt64
	CollegeEducated sql.NullInt64
}

type ImpactScore struct {
	ID                       int64
	CandidateID              int64
	RaceID                   int64
	CompetitivenessScore     float64
	FundingLeverageScore     float64
	ControlImpactScore       float64
	GrassrootsPotentialScore float64
	OverallImpactScore       float64
	RecommendationTier       string
	CalculatedAt             string
}
