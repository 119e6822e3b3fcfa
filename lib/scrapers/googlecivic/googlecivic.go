// Package googlecivic looks up the election calendar from the Google
// Civic Information api. the whole provider is optional: without an api
// key the caller should skip it entirely.
package googlecivic

import (
	"context"
	"fmt"
	"time"

	"donorscope-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/googlecivic")

const defaultBaseUrl = "https://www.googleapis.com/civicinfo/v2"

var ErrNoApiKey = fmt.Errorf("google civic api key not configured")

type Client struct {
	http   *resty.Client
	apiKey string
}

type ClientOptions struct {
	ApiKey string
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
	telemetry.InstrumentResty(client, "scrapers/googlecivic/http")

	return &Client{
		http:   client,
		apiKey: opts.ApiKey,
	}
}

type Election struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	ElectionDay   string `json:"electionDay"`
	OcdDivisionId string `json:"ocdDivisionId"`
}

type electionsResponse struct {
	Elections []Election `json:"elections"`
}

func (c *Client) Elections(ctx context.Context) ([]Election, error) {
	ctx, span := tracer.Start(ctx, "Elections")
	defer span.End()

	if c.apiKey == "" {
		return nil, ErrNoApiKey
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetResult(&electionsResponse{}).
		Get("/elections")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("google civic: unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	body := res.Result().(*electionsResponse)
	span.SetAttributes(attribute.Int("count", len(body.Elections)))
	return body.Elections, nil
}
