package export

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func testCandidates() []Candidate {
	return []Candidate{
		{
			Id: 1, Name: "RIVERA, MARIA", Party: "DEMOCRATIC PARTY", State: "AZ",
			OverallImpactScore: ptr(84.14), RecommendationTier: ptr("High Impact"),
		},
		{
			Id: 2, Name: "COLE, BRETT", Party: "REPUBLICAN PARTY", State: "AZ",
			OverallImpactScore: ptr(61.44), RecommendationTier: ptr("Medium-High Impact"),
		},
		{
			Id: 3, Name: "WASHINGTON, DENISE", Party: "DEMOCRATIC PARTY", State: "GA",
			OverallImpactScore: ptr(44.9), RecommendationTier: ptr("Lower Priority"),
		},
		// never scored
		{Id: 4, Name: "NGUYEN, THANH", Party: "LIBERTARIAN PARTY", State: "AZ"},
	}
}

func TestFilterByName(t *testing.T) {
	out := Filter(testCandidates(), Query{Name: "rivera"})
	require.Len(t, out, 1)
	require.Equal(t, int64(1), out[0].Id)

	out = Filter(testCandidates(), Query{Name: "ZZZ"})
	require.Len(t, out, 0)
}

func TestFilterByPartyAndState(t *testing.T) {
	out := Filter(testCandidates(), Query{Party: "DEMOCRATIC PARTY", State: "AZ"})
	require.Len(t, out, 1)
	require.Equal(t, int64(1), out[0].Id)
}

func TestFilterByTier(t *testing.T) {
	out := Filter(testCandidates(), Query{Tier: "High Impact"})
	require.Len(t, out, 1)
	require.Equal(t, int64(1), out[0].Id)

	// unscored candidates never match a tier constraint
	out = Filter(testCandidates(), Query{Tier: ""})
	require.Len(t, out, 4)
}

func TestFilterMinScore(t *testing.T) {
	// a positive threshold excludes unscored candidates
	out := Filter(testCandidates(), Query{MinScore: 45})
	require.Len(t, out, 2)

	// at exactly zero, unscored candidates pass
	out = Filter(testCandidates(), Query{MinScore: 0})
	require.Len(t, out, 4)

	out = Filter(testCandidates(), Query{MinScore: 0.1})
	require.Len(t, out, 3)
}

func TestFilterOrderIndependent(t *testing.T) {
	full := Query{
		Name:     "a",
		Party:    "DEMOCRATIC PARTY",
		State:    "AZ",
		MinScore: 50,
	}

	allAtOnce := Filter(testCandidates(), full)

	// apply the same constraints one at a time, in two different orders
	sequential := Filter(testCandidates(), Query{Name: full.Name})
	sequential = Filter(sequential, Query{Party: full.Party})
	sequential = Filter(sequential, Query{State: full.State})
	sequential = Filter(sequential, Query{MinScore: full.MinScore})

	reversed := Filter(testCandidates(), Query{MinScore: full.MinScore})
	reversed = Filter(reversed, Query{State: full.State})
	reversed = Filter(reversed, Query{Party: full.Party})
	reversed = Filter(reversed, Query{Name: full.Name})

	if diff := cmp.Diff(allAtOnce, sequential); diff != "" {
		t.Fatalf("sequential filter diverged (-all +sequential):\n%s", diff)
	}
	if diff := cmp.Diff(allAtOnce, reversed); diff != "" {
		t.Fatalf("reversed filter diverged (-all +reversed):\n%s", diff)
	}
}
