package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCandidateBio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "query", r.URL.Query().Get("action"))
		require.Equal(t, "Jane Doe", r.URL.Query().Get("titles"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"query": {
				"pages": {
					"12345": {
						"title": "Jane Doe (politician)",
						"extract": "Jane Doe is an American politician.",
						"original": {"source": "https://upload.example/jane.jpg"}
					}
				}
			}
		}`)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	bio, err := client.CandidateBio(context.Background(), "Jane Doe")
	require.NoError(t, err)
	require.NotNil(t, bio)
	require.Equal(t, "Jane Doe is an American politician.", bio.Extract)
	require.Equal(t, "https://upload.example/jane.jpg", bio.ImageUrl)
}

func TestCandidateBioRejectsUnrelatedTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"query": {
				"pages": {
					"99": {
						"title": "List of municipalities in Arizona",
						"extract": "This is a list article."
					}
				}
			}
		}`)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	bio, err := client.CandidateBio(context.Background(), "Jane Doe")
	require.NoError(t, err)
	require.Nil(t, bio)
}

func TestCandidateBioMissingPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"query": {"pages": {"-1": {"title": "Jane Doe"}}}}`)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	bio, err := client.CandidateBio(context.Background(), "Jane Doe")
	require.NoError(t, err)
	require.Nil(t, bio)
}

func TestTitleMatches(t *testing.T) {
	require.True(t, titleMatches("Jane Doe", "Jane Doe"))
	require.True(t, titleMatches("Jane Doe", "Jane Doe (politician)"))
	require.False(t, titleMatches("Jane Doe", "John Quincy Adams"))
}
