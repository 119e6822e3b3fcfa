package fec

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// serves a fixed candidate set windowed by the real page/per_page
// semantics of the api
func newRosterServer(t *testing.T, roster []Candidate, requests *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/candidates/", r.URL.Path)
		require.Equal(t, "C", r.URL.Query().Get("candidate_status"))

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)
		perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
		require.NoError(t, err)
		*requests++

		start := (page - 1) * perPage
		end := start + perPage
		if start > len(roster) {
			start = len(roster)
		}
		if end > len(roster) {
			end = len(roster)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"results": roster[start:end]})
	}))
}

func makeRoster(n int) []Candidate {
	roster := make([]Candidate, n)
	for i := range roster {
		roster[i] = Candidate{
			CandidateId: fmt.Sprintf("H6CA%05d", i),
			Name:        fmt.Sprintf("FILLER, NO %d", i),
			State:       "CA",
		}
	}
	return roster
}

func TestCandidatesPagination(t *testing.T) {
	roster := makeRoster(150)
	roster[0].PartyFull = "DEMOCRATIC PARTY"
	roster[149].IncumbentChallenge = "Incumbent"

	var requests int
	server := newRosterServer(t, roster, &requests)
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	got, err := client.Candidates(ctx, 2026, "H", 150)
	require.NoError(t, err)
	require.Len(t, got, 150)
	require.Equal(t, 2, requests)

	// every record comes back exactly once: a shifting per_page would
	// re-fetch part of the first window and drop the tail
	seen := map[string]bool{}
	for _, c := range got {
		require.False(t, seen[c.CandidateId], "duplicate candidate %s", c.CandidateId)
		seen[c.CandidateId] = true
	}
	require.False(t, got[0].Incumbent())
	require.True(t, got[149].Incumbent())
}

func TestCandidatesStopsOnShortPage(t *testing.T) {
	var requests int
	server := newRosterServer(t, makeRoster(130), &requests)
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	// the api runs dry before the limit is reached
	got, err := client.Candidates(ctx, 2026, "H", 300)
	require.NoError(t, err)
	require.Len(t, got, 130)
	require.Equal(t, 2, requests)
}

func TestCandidatesLimit(t *testing.T) {
	var requests int
	server := newRosterServer(t, makeRoster(200), &requests)
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	got, err := client.Candidates(ctx, 2026, "", 42)
	require.NoError(t, err)
	require.Len(t, got, 42)
	require.Equal(t, 1, requests)
}

func TestCandidateTotals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/candidate/H6CA01001/totals/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{
				"receipts":                 200000.0,
				"disbursements":            150000.0,
				"cash_on_hand_end_period":  50000.0,
				"individual_contributions": 80000.0,
				"coverage_end_date":        "2026-06-30",
			}},
		})
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	totals, err := client.CandidateTotals(ctx, "H6CA01001")
	require.NoError(t, err)
	require.NotNil(t, totals)
	require.Equal(t, 200000.0, totals.Receipts)
	require.Equal(t, 80000.0, totals.IndividualContributions)
	require.Equal(t, "2026-06-30", totals.CoverageEndDate)
}

func TestCandidateTotalsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	totals, err := client.CandidateTotals(context.Background(), "H0XX00000")
	require.NoError(t, err)
	require.Nil(t, totals)
}
