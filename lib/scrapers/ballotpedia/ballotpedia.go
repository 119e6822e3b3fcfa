// Package ballotpedia supplies race ratings. when a feed url is
// configured it scrapes the ratings table from the page; otherwise it
// falls back to a built-in simulated table of competitive 2026 races,
// since the live site has no stable machine-readable feed.
package ballotpedia

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"donorscope-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/ballotpedia")

type Rating struct {
	State    string
	District string
	// categorical label, e.g. "Toss-up", "Lean D"
	Rating string
	// 0-100 margin figure, 50 = perfect toss-up
	Competitiveness float64
}

type Client struct {
	http    *resty.Client
	feedUrl string
}

type ClientOptions struct {
	// when empty, RaceRatings returns the simulated table
	FeedUrl string
}

func NewClient(opts ClientOptions) *Client {
	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	telemetry.InstrumentResty(client, "scrapers/ballotpedia/http")

	return &Client{
		http:    client,
		feedUrl: opts.FeedUrl,
	}
}

// RaceRatings returns the current competitive race table. Simulated is
// true when the built-in table was used instead of a live fetch.
func (c *Client) RaceRatings(ctx context.Context) (ratings []Rating, simulated bool, err error) {
	ctx, span := tracer.Start(ctx, "RaceRatings")
	defer span.End()

	if c.feedUrl == "" {
		span.SetAttributes(attribute.Bool("simulated", true))
		return simulatedRatings(), true, nil
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.feedUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if res.IsError() {
		err := fmt.Errorf("ballotpedia: unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}

	ratings, err = parseRatingsTable(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	span.SetAttributes(attribute.Int("count", len(ratings)))
	return ratings, false, nil
}

// parseRatingsTable extracts rows of the form
// <tr><td>STATE</td><td>DISTRICT</td><td>RATING</td>[<td>MARGIN</td>]</tr>
// from the first table carrying a "race-ratings" class. rows that don't
// fit the shape are skipped rather than failing the whole parse.
func parseRatingsTable(body []byte) ([]Rating, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var ratings []Rating
	doc.Find("table.race-ratings tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		state := strings.TrimSpace(cells.Eq(0).Text())
		district := strings.TrimSpace(cells.Eq(1).Text())
		label := strings.TrimSpace(cells.Eq(2).Text())
		if len(state) != 2 || label == "" {
			return
		}

		competitiveness, ok := competitivenessForLabel(label)
		if cells.Length() >= 4 {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(cells.Eq(3).Text()), 64)
			if err == nil {
				competitiveness = parsed
				ok = true
			}
		}
		if !ok {
			return
		}

		ratings = append(ratings, Rating{
			State:           strings.ToUpper(state),
			District:        district,
			Rating:          label,
			Competitiveness: competitiveness,
		})
	})
	return ratings, nil
}

// margin defaults for the usual categorical labels, used when the feed
// doesn't carry an explicit margin column
func competitivenessForLabel(label string) (float64, bool) {
	switch strings.ToLower(label) {
	case "toss-up", "tossup":
		return 50, true
	case "lean d", "lean democratic":
		return 45, true
	case "lean r", "lean republican":
		return 55, true
	case "likely d", "likely democratic":
		return 35, true
	case "likely r", "likely republican":
		return 65, true
	case "safe d", "solid d":
		return 20, true
	case "safe r", "solid r":
		return 80, true
	}
	return 0, false
}

// the simulated competitive races for 2026, carried over from the
// prototype data set
func simulatedRatings() []Rating {
	return []Rating{
		{State: "AZ", District: "01", Rating: "Toss-up", Competitiveness: 50},
		{State: "CA", District: "13", Rating: "Lean D", Competitiveness: 45},
		{State: "PA", District: "07", Rating: "Toss-up", Competitiveness: 50},
		{State: "MI", District: "03", Rating: "Lean R", Competitiveness: 55},
		{State: "NC", District: "01", Rating: "Toss-up", Competitiveness: 50},
		{State: "TX", District: "23", Rating: "Lean R", Competitiveness: 55},
		{State: "NV", District: "03", Rating: "Toss-up", Competitiveness: 50},
		{State: "GA", District: "06", Rating: "Lean D", Competitiveness: 45},
	}
}
