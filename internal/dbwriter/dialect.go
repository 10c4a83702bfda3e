package dbwriter

import (
	"fmt"
	"net/url"
	"strings"
)

// Dialect samler SQL som er forskjellig mellom Postgres og SQLite.
type Dialect struct {
	Name        string
	Driver      string
	CreateTable string
	DropTable   string
	Views       []string
	ChartQuery  string
}

const upsertIssue = `
INSERT INTO issues (id, number, repo, title, closed, assignees, created_at, closed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
	number     = excluded.number,
	repo       = excluded.repo,
	title      = excluded.title,
	closed     = excluded.closed,
	assignees  = excluded.assignees,
	created_at = excluded.created_at,
	closed_at  = excluded.closed_at`

var Postgres = Dialect{
	Name:   "postgres",
	Driver: "postgres",
	CreateTable: `
CREATE TABLE IF NOT EXISTS issues (
	id         TEXT PRIMARY KEY,
	number     INTEGER NOT NULL,
	repo       TEXT NOT NULL,
	title      TEXT NOT NULL,
	closed     BOOLEAN NOT NULL,
	assignees  INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	closed_at  TIMESTAMPTZ
)`,
	DropTable: `DROP TABLE IF EXISTS issues CASCADE`,
	Views: []string{`
CREATE OR REPLACE VIEW issue_dates AS
	SELECT DISTINCT created_at::DATE AS day FROM issues
	UNION
	SELECT DISTINCT closed_at::DATE AS day FROM issues
	WHERE closed_at IS NOT NULL`, `
CREATE OR REPLACE VIEW issue_chart AS
	SELECT
		d.day,
		(SELECT count(*) FROM issues WHERE created_at::DATE <= d.day) AS total,
		(SELECT count(*) FROM issues WHERE created_at::DATE <= d.day AND (closed_at IS NULL OR closed_at::DATE > d.day)) AS opened,
		(SELECT count(*) FROM issues WHERE closed_at IS NOT NULL AND closed_at::DATE <= d.day) AS closed
	FROM issue_dates d`,
	},
	ChartQuery: `SELECT to_char(day, 'YYYY-MM-DD'), total, opened, closed FROM issue_chart ORDER BY day`,
}

var SQLite = Dialect{
	Name:   "sqlite",
	Driver: "sqlite3",
	CreateTable: `
CREATE TABLE IF NOT EXISTS issues (
	id         TEXT PRIMARY KEY,
	number     INTEGER NOT NULL,
	repo       TEXT NOT NULL,
	title      TEXT NOT NULL,
	closed     BOOLEAN NOT NULL,
	assignees  INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	closed_at  DATETIME
)`,
	DropTable: `DROP TABLE IF EXISTS issues`,
	Views: []string{
		`DROP VIEW IF EXISTS issue_chart`,
		`DROP VIEW IF EXISTS issue_dates`, `
CREATE VIEW issue_dates AS
	SELECT DISTINCT date(created_at) AS day FROM issues
	UNION
	SELECT DISTINCT date(closed_at) AS day FROM issues
	WHERE closed_at IS NOT NULL`, `
CREATE VIEW issue_chart AS
	SELECT
		d.day,
		(SELECT count(*) FROM issues WHERE date(created_at) <= d.day) AS total,
		(SELECT count(*) FROM issues WHERE date(created_at) <= d.day AND (closed_at IS NULL OR date(closed_at) > d.day)) AS opened,
		(SELECT count(*) FROM issues WHERE closed_at IS NOT NULL AND date(closed_at) <= d.day) AS closed
	FROM issue_dates d`,
	},
	ChartQuery: `SELECT day, total, opened, closed FROM issue_chart ORDER BY day`,
}

// ParseURL velger dialekt ut fra skjemaet og returnerer DSN-en driveren forventer.
func ParseURL(raw string) (Dialect, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Dialect{}, "", fmt.Errorf("ugyldig SQL-URL: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return Postgres, raw, nil
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(raw, u.Scheme+"://")
		return SQLite, "file:" + path, nil
	case "file":
		return SQLite, raw, nil
	default:
		return Dialect{}, "", fmt.Errorf("ukjent SQL-skjema %q – bruk postgres:// eller sqlite://", u.Scheme)
	}
}
