package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/jonmartinstorm/issuesnusern/internal/models"
)

type IssueFetcher struct {
	Client GraphQLClient
}

func NewIssueFetcher(client GraphQLClient) *IssueFetcher {
	return &IssueFetcher{
		Client: client,
	}
}

// GetAllReposAndIssues lister repos, filtrerer på navn og henter issues for ett
// repo om gangen. Feiler ett repo, feiler hele hentingen.
func (f *IssueFetcher) GetAllReposAndIssues(ctx context.Context, owner string, pattern *regexp.Regexp) ([]models.Repository, error) {
	slog.Info("🔍 Henter oversikt over alle repos", "owner", owner)
	all, err := f.GetRepos(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("kunne ikke hente repos for %s: %w", owner, err)
	}

	repos := FilterRepos(all, pattern)
	slog.Info("Repos etter filter", "totalt", len(all), "valgt", len(repos))

	for i := range repos {
		name := repos[i].FullName()
		slog.Info("Henter issues", "index", i+1, "total", len(repos), "repo", name)

		issues, err := f.GetIssues(ctx, repos[i].Owner, repos[i].Name)
		if err != nil {
			return nil, fmt.Errorf("kunne ikke hente issues for %s: %w", name, err)
		}
		repos[i].Issues = issues
		slog.Info("Hentet issues", "repo", name, "antall", len(issues))
	}
	return repos, nil
}
