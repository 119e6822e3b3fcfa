package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompetitivenessComponent(t *testing.T) {
	require.Equal(t, 100.0, CompetitivenessComponent(50))
	require.Equal(t, 0.0, CompetitivenessComponent(0))
	require.Equal(t, 0.0, CompetitivenessComponent(100))
	require.Equal(t, 50.0, CompetitivenessComponent(75))
	require.Equal(t, 50.0, CompetitivenessComponent(25))
}

func TestFundingComponent(t *testing.T) {
	require.Equal(t, 90.0, FundingComponent(0.3))
	require.Equal(t, 75.0, FundingComponent(0.6))
	require.Equal(t, 60.0, FundingComponent(0.9))
	require.Equal(t, 40.0, FundingComponent(1.2))
	require.Equal(t, 20.0, FundingComponent(2.0))

	// boundaries fall into the upper bucket
	require.Equal(t, 75.0, FundingComponent(0.5))
	require.Equal(t, 60.0, FundingComponent(0.75))
	require.Equal(t, 40.0, FundingComponent(1.0))
	require.Equal(t, 20.0, FundingComponent(1.5))
}

func TestFundingRatioUndefined(t *testing.T) {
	_, ok := FundingRatio(0, 500000)
	require.False(t, ok)
	_, ok = FundingRatio(200000, 0)
	require.False(t, ok)

	ratio, ok := FundingRatio(200000, 500000)
	require.True(t, ok)
	require.Equal(t, 0.4, ratio)
}

func TestLeverageScoreNeutralWhenNoOpponent(t *testing.T) {
	// undefined ratio means the funding component sits at the fixed
	// neutral 50, competitiveness still applies
	require.Equal(t, 70.0, LeverageScore(200000, 0, 50))
}

func TestLeverageScore(t *testing.T) {
	// underfunded candidate in a near toss-up
	require.Equal(t, 92.4, LeverageScore(200000, 500000, 48))
	// overfunded front-runner in a safe seat
	require.Equal(t, 12.0, LeverageScore(900000, 100000, 100))
}

func TestControlScore(t *testing.T) {
	require.Equal(t, 60.0, ControlScore(false, true))
	require.Equal(t, 70.0, ControlScore(false, false))
	require.Equal(t, 85.0, ControlScore(true, true))
	require.Equal(t, 95.0, ControlScore(true, false))
}

func TestGrassrootsScore(t *testing.T) {
	require.Equal(t, 60.0, GrassrootsScore(30))
	require.Equal(t, 100.0, GrassrootsScore(50))
	require.Equal(t, 100.0, GrassrootsScore(80))
	require.Equal(t, 0.0, GrassrootsScore(0))
}

func TestImpactScoreMonotonic(t *testing.T) {
	base := ImpactScore(50, 50, 50, 50)
	require.Greater(t, ImpactScore(60, 50, 50, 50), base)
	require.Greater(t, ImpactScore(50, 60, 50, 50), base)
	require.Greater(t, ImpactScore(50, 50, 60, 50), base)
	require.Greater(t, ImpactScore(50, 50, 50, 60), base)
}

func TestTierBoundaries(t *testing.T) {
	require.Equal(t, TierHighImpact, Tier(75.0))
	require.Equal(t, TierMediumHighImpact, Tier(74.9))
	require.Equal(t, TierMediumHighImpact, Tier(60.0))
	require.Equal(t, TierMediumImpact, Tier(59.9))
	require.Equal(t, TierMediumImpact, Tier(45.0))
	require.Equal(t, TierLowerPriority, Tier(44.9))
	require.Equal(t, TierHighImpact, Tier(100))
	require.Equal(t, TierLowerPriority, Tier(0))
}

func TestFundingGap(t *testing.T) {
	require.Nil(t, FundingGap(200000, nil))

	opponent := 500000.0
	gap := FundingGap(200000, &opponent)
	require.NotNil(t, gap)
	require.Equal(t, -300000.0, *gap)

	even := 200000.0
	gap = FundingGap(200000, &even)
	require.NotNil(t, gap)
	require.Equal(t, 0.0, *gap)
}

func TestScoreInsufficientData(t *testing.T) {
	margin := 50.0

	_, err := Score(Inputs{Competitiveness: &margin})
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = Score(Inputs{Finance: &Finance{TotalReceipts: 100000}})
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestScoreEndToEnd(t *testing.T) {
	// underfunded challenger, near toss-up race, strong small-dollar base
	opponent := 500000.0
	margin := 48.0
	result, err := Score(Inputs{
		Finance: &Finance{
			TotalReceipts:         200000,
			OpponentReceipts:      &opponent,
			SmallDollarPercentage: 30,
		},
		Competitiveness: &margin,
		ChamberControl:  false,
		Incumbent:       false,
	})
	require.NoError(t, err)
	require.Equal(t, 96.0, result.Competitiveness)
	require.Equal(t, 92.4, result.Leverage)
	require.Equal(t, 70.0, result.Control)
	require.Equal(t, 60.0, result.Grassroots)

	// the published combination with a low control weight
	require.Equal(t, 76.14, ImpactScore(96, 92.4, 30, 60))
	require.Equal(t, TierHighImpact, Tier(76.14))

	gap := FundingGap(200000, &opponent)
	require.Equal(t, -300000.0, *gap)
}
