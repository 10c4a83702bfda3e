package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonmartinstorm/issuesnusern/internal/bqwriter"
	"github.com/jonmartinstorm/issuesnusern/internal/config"
	"github.com/jonmartinstorm/issuesnusern/internal/dbwriter"
	"github.com/jonmartinstorm/issuesnusern/internal/eswriter"
	"github.com/jonmartinstorm/issuesnusern/internal/fetcher"
	"github.com/jonmartinstorm/issuesnusern/internal/jsonwriter"
	"github.com/jonmartinstorm/issuesnusern/internal/project"
)

// BuildWriters lager én writer per valgt output, i rekkefølgen de ble oppgitt.
func BuildWriters(ctx context.Context, cfg config.Config, client fetcher.GraphQLClient) ([]Writer, error) {
	var writers []Writer

	for _, o := range cfg.Outputs {
		w, err := buildWriter(ctx, cfg, client, o)
		if err != nil {
			for _, built := range writers {
				_ = built.Close()
			}
			return nil, fmt.Errorf("kunne ikke sette opp output %s: %w", o, err)
		}
		slog.Debug("Output klar", "output", o)
		writers = append(writers, w)
	}
	return writers, nil
}

func buildWriter(ctx context.Context, cfg config.Config, client fetcher.GraphQLClient, o config.OutputType) (Writer, error) {
	switch o {
	case config.OutputJSON:
		return jsonwriter.NewJSONWriter(cfg.JSONFile), nil

	case config.OutputProject:
		platforms, err := project.LoadPlatformMap(cfg.PlatformMapFile)
		if err != nil {
			return nil, err
		}
		return project.NewBoard(ctx, client, cfg.Org, cfg.ProjectNumber, platforms, cfg.Parallelism)

	case config.OutputSQL:
		w, err := dbwriter.NewSQLWriter(ctx, cfg.SQLURL)
		if err != nil {
			return nil, err
		}
		if err := w.Init(ctx, cfg.SQLRecreate); err != nil {
			_ = w.Close()
			return nil, err
		}
		return w, nil

	case config.OutputElastic:
		w, err := eswriter.NewElasticWriter(cfg.ElasticURL, cfg.ElasticIndex)
		if err != nil {
			return nil, err
		}
		if err := w.Init(ctx); err != nil {
			return nil, err
		}
		return w, nil

	case config.OutputBigQuery:
		return bqwriter.NewBigQueryWriter(ctx, &cfg)
	}
	return nil, fmt.Errorf("ukjent output %q", o)
}
