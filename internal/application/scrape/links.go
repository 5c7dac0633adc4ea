package scrape

import (
	"context"
	"net/http"
)

const (
	report_links_ok     = "links.ok"
	report_links_failed = "links.failed"
	report_links_link   = "links.link"
)

type LinkStatus struct {
	Country string
	Name    string
	Url     string
	// Status is 0 when the request did not complete.
	Status int
	Err    error
}

func (s LinkStatus) Ok() bool {
	return s.Err == nil && s.Status == http.StatusOK
}

type LinkReport struct {
	Links []LinkStatus
}

func (r LinkReport) Counts() (ok int, failed int) {
	for _, l := range r.Links {
		if l.Ok() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}

// CheckLinks requests the page of every leader of every country and records
// the status it responded with. Only failing to list countries or leaders is an
// error, an unreachable page is recorded as failed.
func CheckLinks(ctx context.Context, deps Dependencies, opts Options) (LinkReport, error) {
	deps.check()

	ctx, span := tracer.Start(ctx, "CheckLinks")
	defer span.End()

	countries, err := deps.Leaders.Countries(ctx)
	if err != nil {
		return LinkReport{}, err
	}
	countries = selectCountries(deps, countries, opts.Countries)

	var report LinkReport
	for _, country := range countries {
		records, err := deps.Leaders.Leaders(ctx, country.Code)
		if err != nil {
			return LinkReport{}, err
		}
		for _, record := range records {
			status, err := deps.Wikipedia.Status(ctx, record.Url)
			link := LinkStatus{
				Country: country.Code,
				Name:    record.Key,
				Url:     record.Url,
				Status:  status,
				Err:     err,
			}
			if !link.Ok() {
				deps.Tel.ReportWarning(report_links_link, record.Url, status, err)
			}
			report.Links = append(report.Links, link)
		}
	}

	ok, failed := report.Counts()
	deps.Tel.ReportCount(report_links_ok, int64(ok))
	deps.Tel.ReportCount(report_links_failed, int64(failed))
	return report, nil
}
