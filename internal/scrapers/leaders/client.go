// client.go contains the logic for talking to the country leaders api, every
// request except the cookie one goes through the Session.

package leaders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"leaders-scraper/internal/components/assert"
	"leaders-scraper/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("leaders-scraper/scrapers/leaders")

const (
	report_client_countries = "client.countries"
	report_client_leaders   = "client.leaders"
)

type ClientOptions struct {
	BaseUrl           string
	CookieEndpoint    string
	CountriesEndpoint string
	LeadersEndpoint   string
	// CountryNames is the display name table, countries not in it keep their
	// code as their name.
	CountryNames CountryNames
	// Timeout of 0 means no timeout.
	Timeout   time.Duration
	UserAgent string
}

type Client struct {
	http    *resty.Client
	session *Session
	opts    ClientOptions
	tel     telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.BaseUrl)
	assert.NotEmptyStr(opts.CookieEndpoint)
	assert.NotEmptyStr(opts.CountriesEndpoint)
	assert.NotEmptyStr(opts.LeadersEndpoint)

	tel = telemetry.NewScopedAPI("leaders_api", tel)

	_, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if opts.CountryNames == nil {
		opts.CountryNames = CountryNames{}
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	// the token is attached explicitly by the session, a jar would resend
	// stale cookies behind its back.
	httpClient.SetCookieJar(nil)
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		http:    httpClient,
		session: newSession(httpClient, opts.CookieEndpoint, tel),
		opts:    opts,
		tel:     tel,
	}, nil
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) CountryNames() CountryNames {
	return c.opts.CountryNames
}

// Countries lists the countries known to the api in the order the api
// returns them, repeated codes are only kept once.
func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	ctx, span := tracer.Start(ctx, "Client.Countries")
	defer span.End()

	res, err := c.session.Get(ctx, c.opts.CountriesEndpoint, nil)
	if err != nil {
		c.tel.ReportBroken(report_client_countries, err)
		return nil, fmt.Errorf("%w: %w", ErrCountriesFetch, err)
	}

	var codes []string
	err = json.Unmarshal(res.Body(), &codes)
	if err != nil {
		c.tel.ReportBroken(
			report_client_countries,
			fmt.Errorf("unmarshal: %w", err),
			res.String(),
		)
		return nil, fmt.Errorf("%w: %w", ErrCountriesFetch, err)
	}

	seen := make(map[string]struct{}, len(codes))
	countries := make([]Country, 0, len(codes))
	for _, code := range codes {
		if _, exists := seen[code]; exists {
			continue
		}
		seen[code] = struct{}{}
		countries = append(countries, Country{
			Code: code,
			Name: c.opts.CountryNames.Name(code),
		})
	}

	c.tel.ReportDebug("get countries", len(countries))
	return countries, nil
}

// Leaders lists the leaders of a country keyed by their disambiguated name.
func (c *Client) Leaders(ctx context.Context, country string) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "Client.Leaders")
	defer span.End()

	res, err := c.session.Get(ctx, c.opts.LeadersEndpoint, url.Values{
		"country": []string{country},
	})
	if err != nil {
		c.tel.ReportBroken(report_client_leaders, err, country)
		return nil, fmt.Errorf("%w: %w", ErrLeadersFetch, err)
	}

	var leaders []Leader
	err = json.Unmarshal(res.Body(), &leaders)
	if err != nil {
		c.tel.ReportBroken(
			report_client_leaders,
			fmt.Errorf("unmarshal: %w", err),
			country,
		)
		return nil, fmt.Errorf("%w: %w", ErrLeadersFetch, err)
	}

	records := Disambiguate(leaders)
	c.tel.ReportDebug("get leaders", country, len(records))
	return records, nil
}
