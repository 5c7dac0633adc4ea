package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leaders-scraper/internal/components/assert"
	"leaders-scraper/internal/components/telemetry"
	"leaders-scraper/internal/scrapers/leaders"
	"leaders-scraper/internal/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("leaders-scraper/application/scrape")

const (
	report_run_countries = "run.countries"
	report_run_excerpts  = "run.excerpts"
	report_run_filter    = "run.filter"
)

// LeadersAPI is the part of the leaders client a run depends on.
type LeadersAPI interface {
	Countries(ctx context.Context) ([]leaders.Country, error)
	Leaders(ctx context.Context, country string) ([]leaders.Record, error)
	CountryNames() leaders.CountryNames
}

// ExcerptAPI is the part of the wikipedia client a run depends on.
type ExcerptAPI interface {
	Excerpt(ctx context.Context, link string) (string, error)
	Status(ctx context.Context, link string) (int, error)
}

type Dependencies struct {
	Leaders   LeadersAPI
	Wikipedia ExcerptAPI
	Tel       telemetry.API
}

func (d Dependencies) check() {
	assert.NotNil(d.Leaders)
	assert.NotNil(d.Wikipedia)
	assert.NotNil(d.Tel)
}

type Options struct {
	// Countries restricts the run to the given countries, either by code or by
	// display name. An empty list means every country.
	Countries []string
}

type Entry struct {
	Name    string
	Country string
	Url     string
}

type Result struct {
	Excerpts *Excerpts
	// Entries is the provenance of every excerpt, in the order they were
	// scraped.
	Entries   []Entry
	StartedAt time.Time
}

// Rows joins the excerpts with their provenance, a name that was scraped more
// than once only keeps its last entry.
func (r Result) Rows() []store.ExcerptRow {
	latest := make(map[string]Entry, len(r.Entries))
	for _, e := range r.Entries {
		latest[e.Name] = e
	}
	rows := make([]store.ExcerptRow, 0, r.Excerpts.Len())
	for _, name := range r.Excerpts.Keys() {
		e := latest[name]
		excerpt, _ := r.Excerpts.Get(name)
		rows = append(rows, store.ExcerptRow{
			Name:    name,
			Country: e.Country,
			Url:     e.Url,
			Excerpt: excerpt,
		})
	}
	return rows
}

func resolveFilter(names leaders.CountryNames, filter []string) map[string]struct{} {
	if len(filter) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(filter))
	for _, f := range filter {
		if code, ok := names.CodeFor(f); ok {
			out[code] = struct{}{}
			continue
		}
		out[strings.ToLower(f)] = struct{}{}
	}
	return out
}

func selectCountries(deps Dependencies, countries []leaders.Country, filter []string) []leaders.Country {
	wanted := resolveFilter(deps.Leaders.CountryNames(), filter)
	if wanted == nil {
		return countries
	}
	var out []leaders.Country
	for _, c := range countries {
		if _, ok := wanted[c.Code]; ok {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		deps.Tel.ReportWarning(report_run_filter, "no country matched the filter", filter)
	}
	return out
}

// Run scrapes every country, its leaders and their excerpts. A failure to list
// countries or leaders aborts the run, a page without content only yields the
// NoContent excerpt.
func Run(ctx context.Context, deps Dependencies, opts Options) (Result, error) {
	deps.check()

	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	result := Result{
		Excerpts:  NewExcerpts(),
		StartedAt: time.Now(),
	}

	countries, err := deps.Leaders.Countries(ctx)
	if err != nil {
		return Result{}, err
	}
	countries = selectCountries(deps, countries, opts.Countries)
	deps.Tel.ReportCount(report_run_countries, int64(len(countries)))

	for _, country := range countries {
		deps.Tel.ReportDebug("fetching leaders", country.Name)

		records, err := deps.Leaders.Leaders(ctx, country.Code)
		if err != nil {
			return Result{}, err
		}

		for _, record := range records {
			deps.Tel.ReportDebug("leader", record.Key, record.Url)

			excerpt, err := deps.Wikipedia.Excerpt(ctx, record.Url)
			if err != nil {
				return Result{}, fmt.Errorf("excerpt of %s: %w", record.Key, err)
			}

			result.Excerpts.Set(record.Key, excerpt)
			result.Entries = append(result.Entries, Entry{
				Name:    record.Key,
				Country: country.Code,
				Url:     record.Url,
			})
		}
	}

	span.SetAttributes(attribute.Int("excerpts", result.Excerpts.Len()))
	deps.Tel.ReportCount(report_run_excerpts, int64(result.Excerpts.Len()))
	return result, nil
}
