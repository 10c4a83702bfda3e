package bqwriter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/jonmartinstorm/issuesnusern/internal/config"
	"github.com/jonmartinstorm/issuesnusern/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	IssuesTable    = "issues"
	SnapshotsTable = "repo_snapshots"
)

type BigQueryWriter struct {
	Client  *bigquery.Client
	Dataset string
	// Now gir tidspunktet som stemples på hver rad.
	Now func() time.Time
}

func NewBigQueryWriter(ctx context.Context, cfg *config.Config) (*BigQueryWriter, error) {
	var opts []option.ClientOption
	if cfg.BQCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.BQCredentials))
	}

	client, err := bigquery.NewClient(ctx, cfg.BQProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("kan ikke opprette BigQuery-klient: %w", err)
	}

	// Sørg for at hver tabell finnes
	tables := map[string]any{
		IssuesTable:    BQIssue{},
		SnapshotsTable: BQRepoSnapshot{},
	}

	for tableName, schemaExample := range tables {
		if err := ensureTableExists(ctx, client, cfg.BQDataset, tableName, schemaExample); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("kunne ikke sikre tabell %s: %w", tableName, err)
		}
	}

	return &BigQueryWriter{
		Client:  client,
		Dataset: cfg.BQDataset,
		Now:     time.Now,
	}, nil
}

func (w *BigQueryWriter) ImportRepo(ctx context.Context, repo models.Repository) error {
	snapshot := w.Now().UTC()

	if err := insert(ctx, w.Client, w.Dataset, IssuesTable, ConvertIssues(repo, snapshot)); err != nil {
		return fmt.Errorf("issues insert failed for %s: %w", repo.FullName(), err)
	}
	if err := insert(ctx, w.Client, w.Dataset, SnapshotsTable, []BQRepoSnapshot{ConvertSnapshot(repo, snapshot)}); err != nil {
		return fmt.Errorf("repo_snapshots insert failed for %s: %w", repo.FullName(), err)
	}

	slog.Info("📊 Skrev issues til BigQuery", "repo", repo.FullName(), "antall", len(repo.Issues))
	return nil
}

func (w *BigQueryWriter) Close() error {
	return w.Client.Close()
}

func insert[T any](ctx context.Context, client *bigquery.Client, dataset, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	inserter := client.Dataset(dataset).Table(table).Inserter()
	return inserter.Put(ctx, rows)
}

// ==== Data-strukturer ====

type BQIssue struct {
	IssueID       string                 `bigquery:"issue_id"`
	WhenCollected time.Time              `bigquery:"when_collected"`
	Owner         string                 `bigquery:"owner"`
	Repo          string                 `bigquery:"repo"`
	Number        int64                  `bigquery:"number"`
	Title         string                 `bigquery:"title"`
	Closed        bool                   `bigquery:"closed"`
	Assignees     int64                  `bigquery:"assignees"`
	AssigneeLogin string                 `bigquery:"assignee_login"`
	CreatedAt     time.Time              `bigquery:"created_at"`
	ClosedAt      bigquery.NullTimestamp `bigquery:"closed_at"`
}

type BQRepoSnapshot struct {
	WhenCollected time.Time `bigquery:"when_collected"`
	Owner         string    `bigquery:"owner"`
	Repo          string    `bigquery:"repo"`
	TotalIssues   int64     `bigquery:"total_issues"`
	OpenIssues    int64     `bigquery:"open_issues"`
	ClosedIssues  int64     `bigquery:"closed_issues"`
	Unassigned    int64     `bigquery:"unassigned"`
}

// ==== Mapping-funksjoner ====

func ConvertIssues(repo models.Repository, snapshot time.Time) []BQIssue {
	result := make([]BQIssue, 0, len(repo.Issues))
	for _, issue := range repo.Issues {
		result = append(result, BQIssue{
			IssueID:       issue.ID,
			WhenCollected: snapshot,
			Owner:         repo.Owner,
			Repo:          repo.Name,
			Number:        int64(issue.Number),
			Title:         issue.Title,
			Closed:        issue.Closed,
			Assignees:     int64(len(issue.Assignees)),
			AssigneeLogin: strings.Join(issue.Assignees, ","),
			CreatedAt:     issue.CreatedAt,
			ClosedAt:      nullTimestamp(issue.ClosedAt),
		})
	}
	return result
}

func ConvertSnapshot(repo models.Repository, snapshot time.Time) BQRepoSnapshot {
	s := BQRepoSnapshot{
		WhenCollected: snapshot,
		Owner:         repo.Owner,
		Repo:          repo.Name,
		TotalIssues:   int64(len(repo.Issues)),
	}
	for _, issue := range repo.Issues {
		if issue.Closed {
			s.ClosedIssues++
			continue
		}
		s.OpenIssues++
		if !issue.HasAssignee() {
			s.Unassigned++
		}
	}
	return s
}

// ==== Hjelpefunksjoner ====

func nullTimestamp(t *time.Time) bigquery.NullTimestamp {
	if t == nil {
		return bigquery.NullTimestamp{}
	}
	return bigquery.NullTimestamp{Timestamp: *t, Valid: true}
}

func ensureTableExists(ctx context.Context, client *bigquery.Client, dataset, table string, exampleStruct any) error {
	tbl := client.Dataset(dataset).Table(table)
	_, err := tbl.Metadata(ctx)
	if err == nil {
		return nil // tabellen finnes
	}

	var gErr *googleapi.Error
	if !errors.As(err, &gErr) || gErr.Code != http.StatusNotFound {
		return fmt.Errorf("feil ved henting av tabell-metadata: %w", err)
	}

	schema, err := bigquery.InferSchema(exampleStruct)
	if err != nil {
		return fmt.Errorf("klarte ikke å generere schema for %s: %w", table, err)
	}

	if err := tbl.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		return fmt.Errorf("klarte ikke å opprette tabell %s: %w", table, err)
	}

	slog.Info("Opprettet BigQuery-tabell", "dataset", dataset, "table", table)
	return nil
}
