package census

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistrictDemographics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "congressional district:01", r.URL.Query().Get("for"))
		require.Equal(t, "state:04", r.URL.Query().Get("in"))
		fmt.Fprint(w, `[
			["B01003_001E","B19013_001E","B15003_022E","state","congressional district"],
			["794611","61234","131072","04","01"]
		]`)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	demo, err := client.DistrictDemographics(context.Background(), "AZ", "01")
	require.NoError(t, err)
	require.NotNil(t, demo)
	require.EqualValues(t, 794611, *demo.Population)
	require.EqualValues(t, 61234, *demo.MedianIncome)
	require.EqualValues(t, 131072, *demo.CollegeEducated)
}

func TestDistrictDemographicsMissingSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			["B01003_001E","B19013_001E","B15003_022E","state","congressional district"],
			["794611","-666666666","131072","06","13"]
		]`)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	demo, err := client.DistrictDemographics(context.Background(), "CA", "13")
	require.NoError(t, err)
	require.NotNil(t, demo)
	require.NotNil(t, demo.Population)
	require.Nil(t, demo.MedianIncome)
}

func TestDistrictDemographicsNoRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[["B01003_001E","B19013_001E","B15003_022E"]]`)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	demo, err := client.DistrictDemographics(context.Background(), "PA", "07")
	require.NoError(t, err)
	require.Nil(t, demo)
}

func TestDistrictDemographicsUnknownState(t *testing.T) {
	client := NewClient(ClientOptions{BaseUrl: "http://127.0.0.1:1"})

	_, err := client.DistrictDemographics(context.Background(), "ZZ", "01")
	require.ErrorIs(t, err, ErrUnknownState)
}
