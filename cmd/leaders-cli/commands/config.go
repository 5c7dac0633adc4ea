package commands

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"leaders-scraper/internal/application/scrape"
	"leaders-scraper/internal/components/configutil"
	"leaders-scraper/internal/components/telemetry"
	"leaders-scraper/internal/scrapers/leaders"
	"leaders-scraper/internal/scrapers/wikipedia"
)

type Config struct {
	BaseUrl           string               `json:"base_url"`
	CookieEndpoint    string               `json:"cookie_endpoint"`
	CountriesEndpoint string               `json:"countries_endpoint"`
	LeadersEndpoint   string               `json:"leaders_endpoint"`
	CountryNames      leaders.CountryNames `json:"country_names"`
	Output            string               `json:"output"`
	Database          string               `json:"database"`
	TimeoutSeconds    int                  `json:"timeout_seconds"`
	UserAgent         string               `json:"user_agent"`
	// the browser-like transport is on unless disabled
	DisableBrowserTransport bool             `json:"disable_browser_transport"`
	Telemetry               telemetry.Config `json:"telemetry"`
}

func DefaultConfig() Config {
	return Config{
		BaseUrl:           "https://country-leaders.onrender.com/",
		CookieEndpoint:    "cookie/",
		CountriesEndpoint: "countries/",
		LeadersEndpoint:   "leaders/",
		CountryNames:      leaders.DefaultCountryNames(),
		Output:            "leaders.json",
	}
}

// LoadConfig reads the config file, if there is none the defaults are used
// as is. Fields missing from the file are taken from the defaults, except
// country_names which replaces the default names entirely when present.
func LoadConfig(name string) (Config, error) {
	cfg, err := configutil.ReadRecursively[Config](name)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file found, using defaults", "name", name)
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}

	countryNames := cfg.CountryNames
	cfg, err = configutil.WithDefaults(cfg, DefaultConfig())
	if err != nil {
		return Config{}, err
	}
	if countryNames != nil {
		cfg.CountryNames = countryNames
	}
	return cfg, nil
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) dependencies(tel telemetry.API) (scrape.Dependencies, error) {
	leadersClient, err := leaders.NewClient(leaders.ClientOptions{
		BaseUrl:           c.BaseUrl,
		CookieEndpoint:    c.CookieEndpoint,
		CountriesEndpoint: c.CountriesEndpoint,
		LeadersEndpoint:   c.LeadersEndpoint,
		CountryNames:      c.CountryNames,
		Timeout:           c.timeout(),
		UserAgent:         c.UserAgent,
	}, tel)
	if err != nil {
		return scrape.Dependencies{}, err
	}

	wikipediaClient := wikipedia.NewClient(wikipedia.ClientOptions{
		BrowserTransport: !c.DisableBrowserTransport,
		Timeout:          c.timeout(),
		UserAgent:        c.UserAgent,
	}, tel)

	return scrape.Dependencies{
		Leaders:   leadersClient,
		Wikipedia: wikipediaClient,
		Tel:       tel,
	}, nil
}
