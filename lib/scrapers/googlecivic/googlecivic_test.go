package googlecivic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestElections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/elections", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"elections": [
				{"id": "9000", "name": "2026 U.S. General Election", "electionDay": "2026-11-03", "ocdDivisionId": "ocd-division/country:us"}
			]
		}`)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{ApiKey: "test-key", BaseUrl: server.URL})

	elections, err := client.Elections(context.Background())
	require.NoError(t, err)
	require.Len(t, elections, 1)
	require.Equal(t, "2026-11-03", elections[0].ElectionDay)
}

func TestElectionsNoKey(t *testing.T) {
	client := NewClient(ClientOptions{})

	_, err := client.Elections(context.Background())
	require.ErrorIs(t, err, ErrNoApiKey)
}
