package wikipedia

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"leaders-scraper/internal/components/assert"
	"leaders-scraper/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("leaders-scraper/scrapers/wikipedia")

const (
	report_client_excerpt = "client.excerpt"
	report_client_status  = "client.status"
)

type ClientOptions struct {
	// Strategy defaults to FirstBoldParagraph.
	Strategy Strategy
	// BrowserTransport makes requests look like they come from a browser
	// (tls fingerprint, headers), wikipedia throttles obvious bots.
	BrowserTransport bool
	// Timeout of 0 means no timeout.
	Timeout   time.Duration
	UserAgent string
}

type Client struct {
	http     *resty.Client
	strategy Strategy
	tel      telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("wikipedia", tel)

	strategy := opts.Strategy
	if strategy == nil {
		strategy = FirstBoldParagraph{}
	}

	httpClient := resty.New()
	if opts.BrowserTransport {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		http:     httpClient,
		strategy: strategy,
		tel:      tel,
	}
}

// Excerpt fetches the page at `link` and returns its cleaned lead text, or
// NoContent if the strategy found none. Only transport failures are errors.
func (c *Client) Excerpt(ctx context.Context, link string) (string, error) {
	ctx, span := tracer.Start(ctx, "Client.Excerpt")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		c.tel.ReportBroken(
			report_client_excerpt,
			fmt.Errorf("fetch: %w", err),
			link,
		)
		return "", err
	}
	if res.StatusCode() != http.StatusOK {
		c.tel.ReportWarning(
			report_client_excerpt,
			fmt.Errorf("unexpected status %d", res.StatusCode()),
			link,
		)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(
			report_client_excerpt,
			fmt.Errorf("parse: %w", err),
			link,
		)
		return NoContent, nil
	}

	text, ok := c.strategy.Select(doc)
	if !ok {
		c.tel.ReportWarning(
			report_client_excerpt,
			fmt.Errorf("no meaningful content found in the first paragraph"),
			link,
		)
		return NoContent, nil
	}

	cleaned := CleanParagraph(text)
	c.tel.ReportDebug("first paragraph", link, cleaned)
	return cleaned, nil
}

// Status returns the status code the page at `link` responds with.
func (c *Client) Status(ctx context.Context, link string) (int, error) {
	ctx, span := tracer.Start(ctx, "Client.Status")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		c.tel.ReportWarning(
			report_client_status,
			fmt.Errorf("fetch: %w", err),
			link,
		)
		return 0, err
	}
	return res.StatusCode(), nil
}
