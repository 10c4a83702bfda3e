package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/jonmartinstorm/issuesnusern/internal/models"
	"github.com/shurcooL/githubv4"
)

type reposQuery struct {
	RepositoryOwner *struct {
		Repositories struct {
			Nodes []struct {
				Name  githubv4.String
				Owner struct {
					Login githubv4.String
				}
			}
			PageInfo pageInfo
		} `graphql:"repositories(first: $pageSize, after: $cursor)"`
	} `graphql:"repositoryOwner(login: $owner)"`
}

// GetReposPage henter én side med repos for en organisasjon eller bruker.
func (f *IssueFetcher) GetReposPage(ctx context.Context, owner string, cursor *string) (Page[models.Repository], error) {
	var q reposQuery
	variables := map[string]any{
		"owner":    githubv4.String(owner),
		"pageSize": githubv4.Int(PageSize),
		"cursor":   cursorVar(cursor),
	}

	slog.Debug("Henter repo-side", "owner", owner, "cursor", cursor)
	if err := f.Client.Query(ctx, &q, variables); err != nil {
		return Page[models.Repository]{}, err
	}

	if q.RepositoryOwner == nil {
		return Page[models.Repository]{}, fmt.Errorf("%w: fant ingen organisasjon eller bruker %q", ErrNotFound, owner)
	}

	conn := q.RepositoryOwner.Repositories
	repos := make([]models.Repository, 0, len(conn.Nodes))
	for _, n := range conn.Nodes {
		repos = append(repos, models.Repository{
			Owner:  string(n.Owner.Login),
			Name:   string(n.Name),
			Issues: []models.Issue{},
		})
	}

	return Page[models.Repository]{
		Items:       repos,
		EndCursor:   conn.PageInfo.cursor(),
		HasNextPage: bool(conn.PageInfo.HasNextPage),
	}, nil
}

// GetRepos lister alle repos eid av owner.
func (f *IssueFetcher) GetRepos(ctx context.Context, owner string) ([]models.Repository, error) {
	return Paginate(ctx, func(ctx context.Context, cursor *string) (Page[models.Repository], error) {
		return f.GetReposPage(ctx, owner, cursor)
	})
}

// FilterRepos beholder repos der navnet matcher. Filtreringen skjer etter at
// hele lista er hentet, så kostnaden mot API-et er den samme uansett filter.
func FilterRepos(repos []models.Repository, pattern *regexp.Regexp) []models.Repository {
	if pattern == nil {
		return repos
	}
	filtered := make([]models.Repository, 0, len(repos))
	for _, r := range repos {
		if pattern.MatchString(r.Name) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
