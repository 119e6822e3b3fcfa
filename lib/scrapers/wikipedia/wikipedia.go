// Package wikipedia looks up candidate biography extracts through the
// MediaWiki query api.
package wikipedia

import (
	"context"
	"fmt"
	"strings"
	"time"

	"donorscope-backend/lib/telemetry"

	"github.com/antzucaro/matchr"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/wikipedia")

const defaultBaseUrl = "https://en.wikipedia.org/w/api.php"

// the title the api resolves must be at least this similar to the
// requested name, otherwise we likely landed on an unrelated page
// (disambiguation, a different person with a similar name, ...)
const minTitleSimilarity = 0.85

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
	client.SetHeader("user-agent", "donorscope/1.0 (research tool)")
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "scrapers/wikipedia/http")

	return &Client{
		http:    client,
		limiter: rate.NewLimiter(rate.Every(time.Millisecond*300), 1),
	}
}

type Bio struct {
	Title    string
	Extract  string
	ImageUrl string
}

type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			Title    string `json:"title"`
			Extract  string `json:"extract"`
			Original struct {
				Source string `json:"source"`
			} `json:"original"`
		} `json:"pages"`
	} `json:"query"`
}

// CandidateBio fetches the intro extract and lead image for a candidate.
// returns (nil, nil) when there is no page, the page has no extract, or
// the resolved title does not plausibly match the requested name.
func (c *Client) CandidateBio(ctx context.Context, name string) (*Bio, error) {
	ctx, span := tracer.Start(ctx, "CandidateBio")
	defer span.End()

	span.SetAttributes(attribute.String("name", name))

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":      "query",
			"format":      "json",
			"titles":      name,
			"prop":        "extracts|pageimages",
			"exintro":     "true",
			"explaintext": "true",
			"piprop":      "original",
			"redirects":   "1",
		}).
		SetResult(&queryResponse{}).
		Get("")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("wikipedia: unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	body := res.Result().(*queryResponse)
	for _, page := range body.Query.Pages {
		if page.Extract == "" {
			continue
		}
		if !titleMatches(name, page.Title) {
			span.SetAttributes(attribute.String("rejected_title", page.Title))
			continue
		}
		return &Bio{
			Title:    page.Title,
			Extract:  page.Extract,
			ImageUrl: page.Original.Source,
		}, nil
	}
	return nil, nil
}

func titleMatches(requested, title string) bool {
	// article titles carry disambiguators like "Jane Doe (politician)"
	if idx := strings.IndexByte(title, '('); idx > 0 {
		title = strings.TrimSpace(title[:idx])
	}
	similarity := matchr.JaroWinkler(
		strings.ToLower(requested),
		strings.ToLower(title),
		false,
	)
	return similarity >= minTitleSimilarity
}
