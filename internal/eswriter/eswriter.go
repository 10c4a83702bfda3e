package eswriter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/jonmartinstorm/issuesnusern/internal/models"
)

const indexMapping = `{
  "mappings": {
    "properties": {
      "number":    { "type": "integer" },
      "repo":      { "type": "keyword" },
      "title":     { "type": "text" },
      "closed":    { "type": "boolean" },
      "assignees": { "type": "integer" },
      "createdAt": { "type": "date" },
      "closedAt":  { "type": "date" }
    }
  }
}`

type ElasticWriter struct {
	Client *elasticsearch.Client
	Index  string
}

// Document er det som indekseres per issue.
type Document struct {
	Repo      string     `json:"repo"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Closed    bool       `json:"closed"`
	Assignees int        `json:"assignees"`
	CreatedAt time.Time  `json:"createdAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
}

// FailedDocument beskriver et dokument som bulk-forespørselen avviste.
type FailedDocument struct {
	ID     string
	Status int
	Error  json.RawMessage
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string          `json:"_id"`
		Status int             `json:"status"`
		Error  json.RawMessage `json:"error"`
	} `json:"items"`
}

func NewElasticWriter(url, index string) (*ElasticWriter, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("kan ikke opprette Elasticsearch-klient: %w", err)
	}
	return &ElasticWriter{Client: client, Index: index}, nil
}

// Init oppretter indeksen med mapping hvis den mangler.
func (w *ElasticWriter) Init(ctx context.Context) error {
	res, err := w.Client.Indices.Exists([]string{w.Index}, w.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("kunne ikke sjekke indeks %s: %w", w.Index, err)
	}
	drain(res)

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("uventet svar ved sjekk av indeks %s: %s", w.Index, res.Status())
	}

	res, err = w.Client.Indices.Create(w.Index,
		w.Client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		w.Client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("kunne ikke opprette indeks %s: %w", w.Index, err)
	}
	defer drain(res)
	if res.IsError() {
		return fmt.Errorf("kunne ikke opprette indeks %s: %s", w.Index, res.String())
	}

	slog.Info("Opprettet indeks", "index", w.Index)
	return nil
}

func (w *ElasticWriter) ImportRepo(ctx context.Context, repo models.Repository) error {
	if len(repo.Issues) == 0 {
		return nil
	}

	body, err := BulkBody(w.Index, repo)
	if err != nil {
		return err
	}

	res, err := w.Client.Bulk(bytes.NewReader(body),
		w.Client.Bulk.WithRefresh("true"),
		w.Client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk-indeksering feilet for %s: %w", repo.FullName(), err)
	}
	defer drain(res)
	if res.IsError() {
		return fmt.Errorf("bulk-indeksering feilet for %s: %s", repo.FullName(), res.String())
	}

	failed, err := parseBulkResponse(res.Body)
	if err != nil {
		return fmt.Errorf("kunne ikke lese bulk-svar for %s: %w", repo.FullName(), err)
	}
	for _, f := range failed {
		slog.Warn("⚠️ Dokument ble avvist", "repo", repo.FullName(), "id", f.ID, "status", f.Status, "error", string(f.Error))
	}

	slog.Info("🔎 Indekserte issues", "repo", repo.FullName(), "antall", len(repo.Issues)-len(failed), "avvist", len(failed))
	return nil
}

func (w *ElasticWriter) Close() error {
	return nil
}

// BulkBody bygger NDJSON med én index-operasjon per issue.
func BulkBody(index string, repo models.Repository) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, issue := range repo.Issues {
		meta := map[string]map[string]string{
			"index": {"_index": index, "_id": issue.ID},
		}
		if err := enc.Encode(meta); err != nil {
			return nil, fmt.Errorf("kunne ikke kode metadata for %s: %w", issue.ID, err)
		}
		if err := enc.Encode(ToDocument(repo, issue)); err != nil {
			return nil, fmt.Errorf("kunne ikke kode dokument for %s: %w", issue.ID, err)
		}
	}
	return buf.Bytes(), nil
}

func ToDocument(repo models.Repository, issue models.Issue) Document {
	return Document{
		Repo:      repo.Name,
		Number:    issue.Number,
		Title:     issue.Title,
		Closed:    issue.Closed,
		Assignees: len(issue.Assignees),
		CreatedAt: issue.CreatedAt,
		ClosedAt:  issue.ClosedAt,
	}
}

func parseBulkResponse(r io.Reader) ([]FailedDocument, error) {
	var br bulkResponse
	if err := json.NewDecoder(r).Decode(&br); err != nil {
		return nil, err
	}
	if !br.Errors {
		return nil, nil
	}

	var failed []FailedDocument
	for _, item := range br.Items {
		for _, op := range item {
			if len(op.Error) == 0 || string(op.Error) == "null" {
				continue
			}
			failed = append(failed, FailedDocument{ID: op.ID, Status: op.Status, Error: op.Error})
		}
	}
	return failed, nil
}

func drain(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}
}
