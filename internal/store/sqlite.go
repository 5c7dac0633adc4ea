package store

import (
	"context"
	"database/sql"
	"time"

	"leaders-scraper/internal/store/db"
	"leaders-scraper/pkg/migrations"
)

type ExcerptRow struct {
	Name    string
	Country string
	Url     string
	Excerpt string
}

// SQLite is a snapshot sink for the result of a run.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (SQLite, error) {
	database, err := migrations.OpenAndApply(db.Schema, path)
	if err != nil {
		return SQLite{}, err
	}
	return SQLite{db: database}, nil
}

func (s SQLite) Close() error {
	return s.db.Close()
}

// SaveRun writes every row in a single transaction, rows replace any previous
// row with the same name.
func (s SQLite) SaveRun(ctx context.Context, scrapedAt time.Time, rows []ExcerptRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO excerpt (name, country, url, excerpt, scraped_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
    country = excluded.country,
    url = excluded.url,
    excerpt = excluded.excerpt,
    scraped_at = excluded.scraped_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx, row.Name, row.Country, row.Url, row.Excerpt, scrapedAt.Unix())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Excerpts returns the stored excerpts of a country ordered by name.
func (s SQLite) Excerpts(ctx context.Context, country string) ([]ExcerptRow, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT name, country, url, excerpt FROM excerpt WHERE country = ? ORDER BY name",
		country,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExcerptRow
	for rows.Next() {
		var row ExcerptRow
		err := rows.Scan(&row.Name, &row.Country, &row.Url, &row.Excerpt)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
