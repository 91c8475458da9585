// Package db writes catalog snapshots to SQLite for offline analysis.
// The site itself never reads them.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/marcusziade/maykott/pkg/content"
	"github.com/marcusziade/maykott/pkg/models"
)

// DB represents the database connection
type DB struct {
	db *sql.DB
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// each connection to ":memory:" is its own database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db: db}, nil
}

// InitSchema initializes the database schema
func (d *DB) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS subsidiaries (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		sector TEXT NOT NULL,
		sector_label TEXT NOT NULL,
		description TEXT,
		assets_under_management TEXT,
		annual_growth TEXT,
		badge TEXT,
		badge_variant TEXT,
		icon TEXT,
		image_url TEXT,
		image_alt TEXT,
		featured INTEGER NOT NULL,
		year_acquired INTEGER,
		headquarters TEXT,
		employees TEXT
	);

	CREATE TABLE IF NOT EXISTS subsidiary_trend (
		subsidiary_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		value INTEGER NOT NULL,
		PRIMARY KEY (subsidiary_id, idx),
		FOREIGN KEY (subsidiary_id) REFERENCES subsidiaries (id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS leaders (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		title TEXT NOT NULL,
		bio TEXT,
		image_url TEXT,
		linkedin TEXT,
		featured INTEGER NOT NULL,
		display_order INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS insights (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		excerpt TEXT,
		sector TEXT NOT NULL,
		sector_label TEXT NOT NULL,
		read_time TEXT,
		published_at TEXT NOT NULL,
		author TEXT,
		author_title TEXT,
		featured INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_subsidiaries_sector ON subsidiaries (sector);
	CREATE INDEX IF NOT EXISTS idx_insights_sector ON insights (sector);
	`

	_, err := d.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Counts is the number of rows written per table
type Counts struct {
	Subsidiaries int `json:"subsidiaries"`
	Leaders      int `json:"leaders"`
	Insights     int `json:"insights"`
}

// Total returns the number of records in the snapshot
func (c Counts) Total() int {
	return c.Subsidiaries + c.Leaders + c.Insights
}

// SaveCatalog replaces the stored snapshot with catalog in one transaction.
// progress, if not nil, is called once per record written.
func (d *DB) SaveCatalog(ctx context.Context, catalog *content.Catalog, progress func()) (Counts, error) {
	if progress == nil {
		progress = func() {}
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"subsidiary_trend", "subsidiaries", "leaders", "insights"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return Counts{}, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	var counts Counts
	if counts.Subsidiaries, err = saveSubsidiaries(ctx, tx, catalog.Subsidiaries.All(), progress); err != nil {
		return Counts{}, err
	}
	if counts.Leaders, err = saveLeaders(ctx, tx, catalog.Leadership.AllOrdered(), progress); err != nil {
		return Counts{}, err
	}
	if counts.Insights, err = saveInsights(ctx, tx, catalog.Insights.All(), progress); err != nil {
		return Counts{}, err
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return counts, nil
}

func saveSubsidiaries(ctx context.Context, tx *sql.Tx, records []models.Subsidiary, progress func()) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subsidiaries (id, position, name, sector, sector_label, description,
			assets_under_management, annual_growth, badge, badge_variant, icon, image_url,
			image_alt, featured, year_acquired, headquarters, employees)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare subsidiary statement: %w", err)
	}
	defer stmt.Close()

	trendStmt, err := tx.PrepareContext(ctx, "INSERT INTO subsidiary_trend (subsidiary_id, idx, value) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare trend statement: %w", err)
	}
	defer trendStmt.Close()

	for i, s := range records {
		_, err := stmt.ExecContext(ctx,
			s.ID, i, s.Name, string(s.Sector), s.SectorLabel, s.Description,
			s.AssetsUnderManagement, s.AnnualGrowth, s.Badge, s.BadgeVariant, s.Icon, s.ImageURL,
			s.ImageAlt, s.Featured, s.YearAcquired, s.Headquarters, s.Employees,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert subsidiary %s: %w", s.ID, err)
		}
		for idx, v := range s.Trend {
			if _, err := trendStmt.ExecContext(ctx, s.ID, idx, v); err != nil {
				return 0, fmt.Errorf("failed to insert trend for %s: %w", s.ID, err)
			}
		}
		progress()
	}

	return len(records), nil
}

func saveLeaders(ctx context.Context, tx *sql.Tx, records []models.Leader, progress func()) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO leaders (id, name, title, bio, image_url, linkedin, featured, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare leader statement: %w", err)
	}
	defer stmt.Close()

	for _, l := range records {
		if _, err := stmt.ExecContext(ctx, l.ID, l.Name, l.Title, l.Bio, l.ImageURL, l.LinkedIn, l.Featured, l.Order); err != nil {
			return 0, fmt.Errorf("failed to insert leader %s: %w", l.ID, err)
		}
		progress()
	}

	return len(records), nil
}

func saveInsights(ctx context.Context, tx *sql.Tx, records []models.Insight, progress func()) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO insights (id, position, slug, title, excerpt, sector, sector_label,
			read_time, published_at, author, author_title, featured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insight statement: %w", err)
	}
	defer stmt.Close()

	for i, in := range records {
		_, err := stmt.ExecContext(ctx,
			in.ID, i, in.Slug, in.Title, in.Excerpt, string(in.Sector), in.SectorLabel,
			in.ReadTime, in.PublishedAt, in.Author, in.AuthorTitle, in.Featured,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert insight %s: %w", in.ID, err)
		}
		progress()
	}

	return len(records), nil
}

// CountRows returns the number of rows in each snapshot table
func (d *DB) CountRows(ctx context.Context) (Counts, error) {
	var counts Counts
	for table, dst := range map[string]*int{
		"subsidiaries": &counts.Subsidiaries,
		"leaders":      &counts.Leaders,
		"insights":     &counts.Insights,
	} {
		if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(dst); err != nil {
			return Counts{}, fmt.Errorf("failed to count %s: %w", table, err)
		}
	}
	return counts, nil
}

// ListSubsidiaries returns the stored holdings in seed order with their trends
func (d *DB) ListSubsidiaries(ctx context.Context) ([]models.Subsidiary, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, sector, sector_label, description, assets_under_management,
			annual_growth, badge, badge_variant, icon, image_url, image_alt, featured,
			year_acquired, headquarters, employees
		FROM subsidiaries
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subsidiaries: %w", err)
	}
	defer rows.Close()

	subsidiaries := []models.Subsidiary{}
	index := map[string]int{}

	for rows.Next() {
		var s models.Subsidiary
		err := rows.Scan(
			&s.ID, &s.Name, &s.Sector, &s.SectorLabel, &s.Description, &s.AssetsUnderManagement,
			&s.AnnualGrowth, &s.Badge, &s.BadgeVariant, &s.Icon, &s.ImageURL, &s.ImageAlt, &s.Featured,
			&s.YearAcquired, &s.Headquarters, &s.Employees,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subsidiary: %w", err)
		}
		index[s.ID] = len(subsidiaries)
		subsidiaries = append(subsidiaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subsidiaries: %w", err)
	}

	trendRows, err := d.db.QueryContext(ctx, "SELECT subsidiary_id, value FROM subsidiary_trend ORDER BY subsidiary_id, idx")
	if err != nil {
		return nil, fmt.Errorf("failed to query trends: %w", err)
	}
	defer trendRows.Close()

	for trendRows.Next() {
		var id string
		var v int
		if err := trendRows.Scan(&id, &v); err != nil {
			return nil, fmt.Errorf("failed to scan trend: %w", err)
		}
		if i, ok := index[id]; ok {
			subsidiaries[i].Trend = append(subsidiaries[i].Trend, v)
		}
	}
	if err := trendRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trends: %w", err)
	}

	return subsidiaries, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}
