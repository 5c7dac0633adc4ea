package scrape

import (
	"context"
	"fmt"

	"leaders-scraper/internal/store"
)

const report_save = "save"

type Output struct {
	// JsonPath is where the excerpts are written as a json object.
	JsonPath string
	// DbPath optionally names a sqlite database that receives a snapshot of
	// the run.
	DbPath string
}

// Save persists a finished run.
func Save(ctx context.Context, deps Dependencies, result Result, out Output) error {
	if out.JsonPath != "" {
		err := store.WriteJSON(out.JsonPath, result.Excerpts)
		if err != nil {
			deps.Tel.ReportBroken(report_save, fmt.Errorf("write json: %w", err), out.JsonPath)
			return err
		}
	}

	if out.DbPath != "" {
		sink, err := store.OpenSQLite(out.DbPath)
		if err != nil {
			deps.Tel.ReportBroken(report_save, fmt.Errorf("open db: %w", err), out.DbPath)
			return err
		}
		defer sink.Close()

		err = sink.SaveRun(ctx, result.StartedAt, result.Rows())
		if err != nil {
			deps.Tel.ReportBroken(report_save, fmt.Errorf("save run: %w", err), out.DbPath)
			return err
		}
	}

	return nil
}

// RunAndSave runs a scrape and only persists it once the whole run succeeded,
// a failed run writes nothing.
func RunAndSave(ctx context.Context, deps Dependencies, opts Options, out Output) (Result, error) {
	result, err := Run(ctx, deps, opts)
	if err != nil {
		return Result{}, err
	}
	err = Save(ctx, deps, result, out)
	if err != nil {
		return Result{}, err
	}
	return result, nil
}
