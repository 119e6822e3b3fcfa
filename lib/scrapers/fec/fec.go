// Package fec pulls candidate rosters and committee totals from the
// OpenFEC api (https://api.open.fec.gov).
package fec

import (
	"context"
	"fmt"
	"time"

	"donorscope-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/fec")

const defaultBaseUrl = "https://api.open.fec.gov/v1"

// DemoKey is the unauthenticated key the FEC hands out for light use.
const DemoKey = "DEMO_KEY"

type Client struct {
	http    *resty.Client
	apiKey  string
	limiter *rate.Limiter
}

type ClientOptions struct {
	// defaults to DemoKey
	ApiKey string
	// overrides the production api, used in tests
	BaseUrl string
}

func NewClient(opts ClientOptions) *Client {
	apiKey := opts.ApiKey
	if apiKey == "" {
		apiKey = DemoKey
	}
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", "donorscope/1.0")
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "scrapers/fec/http")

	// courtesy limit so repeated runs stay well under the hourly quota
	return &Client{
		http:    client,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Every(time.Millisecond*300), 1),
	}
}

// Candidate is the subset of the FEC candidate record this system uses.
type Candidate struct {
	CandidateId        string `json:"candidate_id"`
	Name               string `json:"name"`
	PartyFull          string `json:"party_full"`
	OfficeFull         string `json:"office_full"`
	State              string `json:"state"`
	District           string `json:"district"`
	IncumbentChallenge string `json:"incumbent_challenge_full"`
	CandidateStatus    string `json:"candidate_status"`
	ElectionYears      []int  `json:"election_years"`
}

func (c Candidate) Incumbent() bool {
	return c.IncumbentChallenge == "Incumbent"
}

type candidatesResponse struct {
	Results []Candidate `json:"results"`
}

// Candidates fetches active candidates for an election year, paginating
// until `limit` records have been collected or the api runs dry.
// `office` is one of "H", "S", "P" or empty for all offices.
func (c *Client) Candidates(ctx context.Context, year int, office string, limit int) ([]Candidate, error) {
	ctx, span := tracer.Start(ctx, "Candidates")
	defer span.End()

	span.SetAttributes(
		attribute.Int("election_year", year),
		attribute.String("office", office),
	)

	// per_page must stay constant across pages: the api windows records
	// by page*per_page, so shrinking it mid-run shifts the window and
	// re-fetches earlier records
	perPage := limit
	if perPage > 100 {
		perPage = 100
	}

	var candidates []Candidate
	for page := 1; len(candidates) < limit; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"api_key":          c.apiKey,
				"election_year":    fmt.Sprint(year),
				"per_page":         fmt.Sprint(perPage),
				"page":             fmt.Sprint(page),
				"sort":             "name",
				"candidate_status": "C",
			}).
			SetResult(&candidatesResponse{})
		if office != "" {
			req.SetQueryParam("office", office)
		}

		res, err := req.Get("/candidates/")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if res.IsError() {
			err := fmt.Errorf("fec candidates: unexpected status %d", res.StatusCode())
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		body := res.Result().(*candidatesResponse)
		if len(body.Results) == 0 {
			break
		}
		candidates = append(candidates, body.Results...)
		if len(body.Results) < perPage {
			break
		}
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	span.SetAttributes(attribute.Int("count", len(candidates)))
	return candidates, nil
}

// Totals is the latest-cycle financial summary for one candidate.
type Totals struct {
	Receipts                float64 `json:"receipts"`
	Disbursements           float64 `json:"disbursements"`
	CashOnHand              float64 `json:"cash_on_hand_end_period"`
	Contributions           float64 `json:"contributions"`
	IndividualContributions float64 `json:"individual_contributions"`
	PacContributions        float64 `json:"other_political_committee_contributions"`
	PartyContributions      float64 `json:"political_party_committee_contributions"`
	CandidateContributions  float64 `json:"candidate_contribution"`
	CoverageEndDate         string  `json:"coverage_end_date"`
}

type totalsResponse struct {
	Results []Totals `json:"results"`
}

// CandidateTotals fetches the most recent cycle totals for a candidate.
// a candidate with no filed reports yields (nil, nil).
func (c *Client) CandidateTotals(ctx context.Context, candidateId string) (*Totals, error) {
	ctx, span := tracer.Start(ctx, "CandidateTotals")
	defer span.End()

	span.SetAttributes(attribute.String("candidate_id", candidateId))

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key":  c.apiKey,
			"per_page": "1",
			"sort":     "-cycle",
		}).
		SetResult(&totalsResponse{}).
		Get(fmt.Sprintf("/candidate/%s/totals/", candidateId))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("fec totals: unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	body := res.Result().(*totalsResponse)
	if len(body.Results) == 0 {
		return nil, nil
	}
	return &body.Results[0], nil
}
