package jsonwriter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonmartinstorm/issuesnusern/internal/models"
)

// JSONWriter samler repos og skriver alt som ett JSON-dokument ved Flush.
// Uten filsti går dokumentet til Stdout. Close uten Flush forkaster bufferet,
// så en feilet kjøring aldri overskriver forrige eksport.
type JSONWriter struct {
	Path   string
	Stdout io.Writer

	repos []models.Repository
}

func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{
		Path:   path,
		Stdout: os.Stdout,
		repos:  []models.Repository{},
	}
}

func (w *JSONWriter) ImportRepo(_ context.Context, repo models.Repository) error {
	w.repos = append(w.repos, repo)
	return nil
}

// Close slipper bufferet. Det som ikke er flushet blir ikke skrevet.
func (w *JSONWriter) Close() error {
	if len(w.repos) > 0 {
		slog.Warn("Forkaster JSON-output som ikke ble fullført", "repos", len(w.repos))
	}
	w.repos = nil
	return nil
}

// Flush skriver alle repos som ett dokument. Kalles først når hele kjøringen lyktes.
func (w *JSONWriter) Flush() error {
	out, err := json.MarshalIndent(w.repos, "", "  ")
	if err != nil {
		return fmt.Errorf("kunne ikke serialisere repos til JSON: %w", err)
	}
	out = append(out, '\n')

	count := len(w.repos)
	w.repos = []models.Repository{}

	if w.Path == "" {
		if _, err := w.Stdout.Write(out); err != nil {
			return fmt.Errorf("kunne ikke skrive JSON til stdout: %w", err)
		}
		return nil
	}

	if err := writeFileAtomic(w.Path, out); err != nil {
		return err
	}

	slog.Info("Lagret issues som JSON", "repos", count, "file", w.Path)
	return nil
}

// writeFileAtomic skriver til en midlertidig fil i samme katalog og bytter
// den inn med rename, så path enten har gammelt eller nytt innhold.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("kunne ikke opprette katalog %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("kunne ikke opprette midlertidig fil i %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("kunne ikke skrive til fil %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("kunne ikke sette rettigheter på %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kunne ikke lukke %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("kunne ikke skrive til fil %s: %w", path, err)
	}
	return nil
}
