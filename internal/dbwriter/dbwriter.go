package dbwriter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonmartinstorm/issuesnusern/internal/models"
	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var OpenSQL = sql.Open

type SQLWriter struct {
	DB      *sql.DB
	Dialect Dialect
}

// DayCount er én rad fra issue_chart.
type DayCount struct {
	Day    time.Time
	Total  int
	Opened int
	Closed int
}

// NewSQLWriter åpner og pinger databasen bak rawURL.
func NewSQLWriter(ctx context.Context, rawURL string) (*SQLWriter, error) {
	dialect, dsn, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	db, err := OpenSQL(dialect.Driver, dsn)
	if err != nil {
		slog.Error("Kunne ikke åpne database", "dialect", dialect.Name, "error", err)
		return nil, fmt.Errorf("kunne ikke åpne %s-database: %w", dialect.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		if cerr := db.Close(); cerr != nil {
			slog.Warn("Klarte ikke å lukke DB", "error", cerr)
		}
		return nil, fmt.Errorf("DB ping-feil: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)

	slog.Info("DB-tilkobling OK", "dialect", dialect.Name)
	return NewSQLWriterFromDB(db, dialect), nil
}

func NewSQLWriterFromDB(db *sql.DB, dialect Dialect) *SQLWriter {
	return &SQLWriter{DB: db, Dialect: dialect}
}

// Init oppretter tabellen og viewene. Med recreate slettes tabellen først,
// og alt som ble lagret i tidligere kjøringer forsvinner.
func (w *SQLWriter) Init(ctx context.Context, recreate bool) error {
	if recreate {
		slog.Warn("Sletter issues-tabellen før import")
		if _, err := w.DB.ExecContext(ctx, w.Dialect.DropTable); err != nil {
			return fmt.Errorf("kunne ikke slette tabell: %w", err)
		}
	}
	if _, err := w.DB.ExecContext(ctx, w.Dialect.CreateTable); err != nil {
		return fmt.Errorf("kunne ikke opprette tabell: %w", err)
	}
	return w.CreateViews(ctx)
}

// CreateViews lager issue_dates og issue_chart: kumulativt antall totalt,
// åpne og lukkede issues per dag.
func (w *SQLWriter) CreateViews(ctx context.Context) error {
	for _, stmt := range w.Dialect.Views {
		if _, err := w.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("kunne ikke opprette view: %w", err)
		}
	}
	return nil
}

// ImportRepo upserter én rad per issue i én transaksjon.
func (w *SQLWriter) ImportRepo(ctx context.Context, repo models.Repository) error {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertIssue)
	if err != nil {
		return rollback(tx, fmt.Errorf("prepare feilet: %w", err))
	}
	defer stmt.Close()

	for _, issue := range repo.Issues {
		slog.Debug("Skriver issue", "repo", repo.FullName(), "number", issue.Number)
		if _, err := stmt.ExecContext(ctx, IssueRow(repo, issue)...); err != nil {
			return rollback(tx, fmt.Errorf("upsert av %s#%d feilet: %w", repo.FullName(), issue.Number, err))
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("Commit-feil – ruller tilbake", "repo", repo.FullName(), "error", err)
		return fmt.Errorf("commit failed: %w", err)
	}

	slog.Info("📝 Skrev issues til DB", "repo", repo.FullName(), "antall", len(repo.Issues))
	return nil
}

// IssueRow gir verdiene i samme rekkefølge som kolonnene i upsertIssue.
func IssueRow(repo models.Repository, issue models.Issue) []any {
	var closedAt sql.NullTime
	if issue.ClosedAt != nil {
		closedAt = sql.NullTime{Time: *issue.ClosedAt, Valid: true}
	}
	return []any{
		issue.ID,
		issue.Number,
		repo.Name,
		issue.Title,
		issue.Closed,
		len(issue.Assignees),
		issue.CreatedAt,
		closedAt,
	}
}

func (w *SQLWriter) DailyCounts(ctx context.Context) ([]DayCount, error) {
	rows, err := w.DB.QueryContext(ctx, w.Dialect.ChartQuery)
	if err != nil {
		return nil, fmt.Errorf("kunne ikke lese issue_chart: %w", err)
	}
	defer rows.Close()

	var counts []DayCount
	for rows.Next() {
		var (
			day string
			c   DayCount
		)
		if err := rows.Scan(&day, &c.Total, &c.Opened, &c.Closed); err != nil {
			return nil, err
		}
		if c.Day, err = time.Parse(time.DateOnly, day); err != nil {
			return nil, fmt.Errorf("ugyldig dag %q: %w", day, err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (w *SQLWriter) Close() error {
	return w.DB.Close()
}

func rollback(tx *sql.Tx, err error) error {
	if rbErr := tx.Rollback(); rbErr != nil {
		return fmt.Errorf("%v (rollback feilet: %w)", err, rbErr)
	}
	return err
}
