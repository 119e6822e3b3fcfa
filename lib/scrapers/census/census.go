// Package census pulls congressional district demographics from the
// Census ACS 5-year api. no api key is required for light use.
package census

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"donorscope-backend/lib/statecodes"
	"donorscope-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/census")

const defaultBaseUrl = "https://api.census.gov/data/2021/acs/acs5"

// the ACS encodes "no data" as this sentinel instead of omitting the cell
const missingValue = "-666666666"

// requested variables, in order: total population, median household
// income, bachelor's degree holders
const acsVariables = "B01003_001E,B19013_001E,B15003_022E"

var ErrUnknownState = fmt.Errorf("unknown state abbreviation")

type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

type ClientOptions struct {
	// overrides the production api, used in tests
	BaseUrl string
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", "donorscope/1.0")
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "scrapers/census/http")

	return &Client{
		http:    client,
		limiter: rate.NewLimiter(rate.Every(time.Millisecond*300), 1),
	}
}

// Demographics carries the district figures this system uses. fields are
// nil when the ACS reports its missing-value sentinel.
type Demographics struct {
	Population      *int64
	MedianIncome    *int64
	CollegeEducated *int64
}

// DistrictDemographics fetches population, median income and education
// figures for one congressional district. `district` is the
// zero-padded district number, e.g. "01".
func (c *Client) DistrictDemographics(ctx context.Context, state, district string) (*Demographics, error) {
	ctx, span := tracer.Start(ctx, "DistrictDemographics")
	defer span.End()

	span.SetAttributes(
		attribute.String("state", state),
		attribute.String("district", district),
	)

	fips, ok := statecodes.Fips(state)
	if !ok {
		span.SetStatus(codes.Error, "unknown state")
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"get": acsVariables,
			"for": fmt.Sprintf("congressional district:%s", district),
			"in":  fmt.Sprintf("state:%s", fips),
		}).
		Get("")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("census acs: unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// the ACS responds with a positional table: a header row followed
	// by one row per geography
	var table [][]string
	err = json.Unmarshal(res.Body(), &table)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("census acs: %w", err)
	}
	if len(table) < 2 || len(table[1]) < 3 {
		return nil, nil
	}

	row := table[1]
	return &Demographics{
		Population:      parseAcsValue(row[0]),
		MedianIncome:    parseAcsValue(row[1]),
		CollegeEducated: parseAcsValue(row[2]),
	}, nil
}

func parseAcsValue(raw string) *int64 {
	if raw == "" || raw == missingValue {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
