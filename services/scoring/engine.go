// Package scoring derives donation leverage and overall impact scores
// from campaign finance and race competitiveness data.
package scoring

import (
	"errors"
	"math"
)

// ErrInsufficientData marks a candidate that cannot be scored because a
// required input (finance record, race competitiveness) is missing.
// Such candidates are skipped rather than scored with defaults.
var ErrInsufficientData = errors.New("insufficient data to score candidate")

// Recommendation tiers, highest first.
const (
	TierHighImpact       = "High Impact"
	TierMediumHighImpact = "Medium-High Impact"
	TierMediumImpact     = "Medium Impact"
	TierLowerPriority    = "Lower Priority"
)

const neutralFundingComponent = 50

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// FundingRatio is candidate receipts over opponent receipts. It is
// undefined (ok = false) unless both sides have positive receipts.
func FundingRatio(receipts, opponentReceipts float64) (float64, bool) {
	if receipts <= 0 || opponentReceipts <= 0 {
		return 0, false
	}
	return receipts / opponentReceipts, true
}

// FundingComponent maps a funding ratio onto a step function where
// underfunded candidates score higher: each marginal dollar matters
// more to them.
func FundingComponent(ratio float64) float64 {
	switch {
	case ratio < 0.5:
		return 90
	case ratio < 0.75:
		return 75
	case ratio < 1.0:
		return 60
	case ratio < 1.5:
		return 40
	default:
		return 20
	}
}

// CompetitivenessComponent peaks at 100 for a perfect toss-up
// (margin 50) and falls off linearly toward safe seats.
func CompetitivenessComponent(margin float64) float64 {
	return clamp(100-math.Abs(margin-50)*2, 0, 100)
}

// LeverageScore weighs the funding gap against race competitiveness.
// Higher score = more impact per dollar donated.
func LeverageScore(receipts, opponentReceipts, competitiveness float64) float64 {
	funding := float64(neutralFundingComponent)
	if ratio, ok := FundingRatio(receipts, opponentReceipts); ok {
		funding = FundingComponent(ratio)
	}
	score := funding*0.6 + CompetitivenessComponent(competitiveness)*0.4
	return round2(clamp(score, 0, 100))
}

// ControlScore reflects how much a seat matters for chamber control.
// Challengers get a bonus since flipping a seat moves the margin twice.
func ControlScore(chamberControl, incumbent bool) float64 {
	score := 60.0
	if chamberControl {
		score = 85
	}
	if !incumbent {
		score += 10
	}
	return clamp(score, 0, 100)
}

// GrassrootsScore rewards small-dollar fundraising, capped at 100.
func GrassrootsScore(smallDollarPercentage float64) float64 {
	return math.Min(100, smallDollarPercentage*2)
}

// ImpactScore combines the four component scores with fixed weights.
func ImpactScore(competitiveness, leverage, control, grassroots float64) float64 {
	return round2(competitiveness*0.30 + leverage*0.35 + control*0.20 + grassroots*0.15)
}

// Tier buckets an overall impact score. Lower edges are inclusive.
func Tier(impact float64) string {
	switch {
	case impact >= 75:
		return TierHighImpact
	case impact >= 60:
		return TierMediumHighImpact
	case impact >= 45:
		return TierMediumImpact
	default:
		return TierLowerPriority
	}
}

// FundingGap is receipts minus opponent receipts, nil when no opponent
// filing is known. A nil gap is deliberately distinct from a zero gap.
func FundingGap(receipts float64, opponentReceipts *float64) *float64 {
	if opponentReceipts == nil {
		return nil
	}
	gap := receipts - *opponentReceipts
	return &gap
}

// Finance is the subset of a campaign filing the engine reads.
type Finance struct {
	TotalReceipts         float64
	OpponentReceipts      *float64
	SmallDollarPercentage float64
}

// Inputs holds everything needed to score one candidate in one race.
type Inputs struct {
	Finance *Finance
	// race competitiveness margin, nil when no rating exists
	Competitiveness *float64
	ChamberControl  bool
	Incumbent       bool
}

type Result struct {
	Competitiveness float64
	Leverage        float64
	Control         float64
	Grassroots      float64
	Impact          float64
	Tier            string
}

// Score computes the full result for one candidate. It returns
// ErrInsufficientData when the finance record or the race
// competitiveness is missing.
func Score(in Inputs) (Result, error) {
	if in.Finance == nil || in.Competitiveness == nil {
		return Result{}, ErrInsufficientData
	}

	competitiveness := CompetitivenessComponent(*in.Competitiveness)

	var opponent float64
	if in.Finance.OpponentReceipts != nil {
		opponent = *in.Finance.OpponentReceipts
	}
	leverage := LeverageScore(in.Finance.TotalReceipts, opponent, *in.Competitiveness)

	control := ControlScore(in.ChamberControl, in.Incumbent)
	grassroots := GrassrootsScore(in.Finance.SmallDollarPercentage)

	impact := ImpactScore(competitiveness, leverage, control, grassroots)

	return Result{
		Competitiveness: competitiveness,
		Leverage:        leverage,
		Control:         control,
		Grassroots:      grassroots,
		Impact:          impact,
		Tier:            Tier(impact),
	}, nil
}
