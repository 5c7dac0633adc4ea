package commands

import (
	"fmt"
	"os"

	"leaders-scraper/internal/application/scrape"
	"leaders-scraper/internal/components/serviceutil"
	"leaders-scraper/internal/components/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

var checkCountries *[]string

func init() {
	checkCountries = checkCmd.Flags().StringSlice("country", nil, "Only check these countries, by code or by name.")
	rootCmd.AddCommand(checkCmd)
}

func renderLinkReport(report scrape.LinkReport) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Country", "Leader", "Url", "Status"})

	for _, link := range report.Links {
		status := fmt.Sprint(link.Status)
		if link.Err != nil {
			status = link.Err.Error()
		}
		t.AppendRow(table.Row{link.Country, link.Name, link.Url, status})
	}

	ok, failed := report.Counts()
	t.AppendFooter(table.Row{"", "", "ok / failed", fmt.Sprintf("%d / %d", ok, failed)})
	t.SetStyle(table.StyleRounded)
	return t.Render()
}

var checkCmd = &cobra.Command{
	Use:   "check [--country <code|name>]",
	Short: "Checks that the wikipedia page of every leader responds.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := LoadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		shutdown := setupOtel(ctx, cfg)
		defer shutdown()

		tel, err := telemetry.NewMeterAPI(telemetry.SlogAPI{}, otel.GetMeterProvider())
		if err != nil {
			serviceutil.Fatal("failed to initialize metrics", err)
		}
		deps, err := cfg.dependencies(tel)
		if err != nil {
			serviceutil.Fatal("failed to initialize clients", err)
		}

		report, err := scrape.CheckLinks(ctx, deps, scrape.Options{Countries: *checkCountries})
		if err != nil {
			serviceutil.Fatal("failed to check links", err)
		}

		fmt.Fprintln(os.Stdout, renderLinkReport(report))
	},
}
