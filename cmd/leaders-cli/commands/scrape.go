package commands

import (
	"context"
	"log/slog"
	"time"

	"leaders-scraper/internal/application/scrape"
	"leaders-scraper/internal/components/serviceutil"
	"leaders-scraper/internal/components/telemetry"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

var (
	scrapeOut       *string
	scrapeDb        *string
	scrapeCountries *[]string
)

func init() {
	scrapeOut = scrapeCmd.Flags().String("out", "", "The json file to write excerpts to, overrides the config.")
	scrapeDb = scrapeCmd.Flags().String("db", "", "An optional sqlite database to write a snapshot of the run to, overrides the config.")
	scrapeCountries = scrapeCmd.Flags().StringSlice("country", nil, "Only scrape these countries, by code or by name.")
	rootCmd.AddCommand(scrapeCmd)
}

// setupOtel installs the exporters named in the config, a failure only
// disables tracing.
func setupOtel(ctx context.Context, cfg Config) func() {
	providers, err := telemetry.Setup(ctx, "leaders-cli", cfg.Telemetry)
	if err != nil {
		slog.Warn("failed to setup otel, continuing without it", "err", err)
		return func() {}
	}
	return func() {
		err := providers.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown otel", "err", err)
		}
	}
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--out <path/to/output.json>] [--db <path/to/output.db>] [--country <code|name>]",
	Short: "Scrapes every leader of every country and writes their excerpt to a json file.",
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

		out := scrape.Output{
			JsonPath: cfg.Output,
			DbPath:   cfg.Database,
		}
		if *scrapeOut != "" {
			out.JsonPath = *scrapeOut
		}
		if *scrapeDb != "" {
			out.DbPath = *scrapeDb
		}

		t1 := time.Now()
		result, err := scrape.RunAndSave(ctx, deps, scrape.Options{Countries: *scrapeCountries}, out)
		if err != nil {
			shutdown()
			serviceutil.Fatal("scrape failed, nothing was written", err)
		}
		t2 := time.Now()

		telemetry.ReportPerfStats(ctx, tel, otel.GetMeterProvider())
		slog.Info(
			"scrape finished",
			"excerpts", result.Excerpts.Len(),
			"output", out.JsonPath,
			"seconds", t2.Sub(t1).Seconds(),
		)
	},
}
