package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"
	"time"

	"github.com/jonmartinstorm/issuesnusern/internal/config"
	"github.com/jonmartinstorm/issuesnusern/internal/models"
)

type Fetcher interface {
	GetAllReposAndIssues(ctx context.Context, owner string, pattern *regexp.Regexp) ([]models.Repository, error)
}

// Writer er en sink som tar imot ett repo med issues om gangen.
type Writer interface {
	ImportRepo(ctx context.Context, repo models.Repository) error
	Close() error
}

// Flusher er en writer som holder på resultatet til hele kjøringen har lyktes.
// Close uten Flush forkaster det som er bufret.
type Flusher interface {
	Flush() error
}

type App struct {
	Cfg     config.Config
	Fetcher Fetcher
	Writers []Writer
}

func NewApp(cfg config.Config, fetcher Fetcher, writers ...Writer) *App {
	return &App{
		Cfg:     cfg,
		Fetcher: fetcher,
		Writers: writers,
	}
}

// Run henter alt først og skriver så hvert repo til hver sink etter tur.
// Writers som er Flusher flushes bare når alt gikk bra. Writers lukkes alltid til slutt.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		err = errors.Join(err, a.closeWriters())
	}()

	repos, err := a.Fetcher.GetAllReposAndIssues(ctx, a.Cfg.Org, a.Cfg.Repos)
	if err != nil {
		return err
	}

	total := 0
	for _, r := range repos {
		total += len(r.Issues)
	}
	slog.Info("📦 Hentet alt", "repos", len(repos), "issues", total)

	if a.Cfg.DryRun {
		for _, r := range repos {
			slog.Info("Tørrkjøring, skriver ikke", "repo", r.FullName(), "issues", len(r.Issues))
		}
		return nil
	}

	for _, repo := range repos {
		for _, w := range a.Writers {
			if err := w.ImportRepo(ctx, repo); err != nil {
				return fmt.Errorf("kunne ikke skrive %s: %w", repo.FullName(), err)
			}
		}
	}
	return a.flushWriters()
}

func (a *App) flushWriters() error {
	for _, w := range a.Writers {
		f, ok := w.(Flusher)
		if !ok {
			continue
		}
		if err := f.Flush(); err != nil {
			return fmt.Errorf("kunne ikke fullføre skriving: %w", err)
		}
	}
	return nil
}

func (a *App) closeWriters() error {
	var errs []error
	for _, w := range a.Writers {
		if err := w.Close(); err != nil {
			slog.Warn("Klarte ikke å lukke writer", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func RunAppSafe(ctx context.Context, app *App) error {
	start := time.Now()

	err := app.Run(ctx)
	if err != nil {
		slog.Debug("Runner feilet", "error", err)
		return err
	}

	LogMemoryStats()
	slog.Info("Ferdig!", "varighet", time.Since(start).String())
	return nil
}

func LogMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	slog.Debug("Minnebruk",
		"alloc", ByteSize(m.Alloc),
		"totalAlloc", ByteSize(m.TotalAlloc),
		"sys", ByteSize(m.Sys),
		"numGC", m.NumGC)
}

func ByteSize(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := unit, 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
