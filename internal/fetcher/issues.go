package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonmartinstorm/issuesnusern/internal/models"
	"github.com/shurcooL/githubv4"
)

type issueNode struct {
	ID        githubv4.String
	Number    githubv4.Int
	Title     githubv4.String
	Closed    githubv4.Boolean
	CreatedAt githubv4.DateTime
	ClosedAt  *githubv4.DateTime
	Assignees struct {
		Nodes []struct {
			Login githubv4.String
		}
	} `graphql:"assignees(first: 1)"`
}

// Eldste først, så daglige aggregater kan anta stigende opprettelsestid.
type issuesQuery struct {
	Repository *struct {
		Issues struct {
			Nodes    []issueNode
			PageInfo pageInfo
		} `graphql:"issues(first: $pageSize, after: $cursor, orderBy: {field: CREATED_AT, direction: ASC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// GetIssuesPage henter én side med issues, både åpne og lukkede.
func (f *IssueFetcher) GetIssuesPage(ctx context.Context, owner, name string, cursor *string) (Page[models.Issue], error) {
	var q issuesQuery
	variables := map[string]any{
		"owner":    githubv4.String(owner),
		"name":     githubv4.String(name),
		"pageSize": githubv4.Int(PageSize),
		"cursor":   cursorVar(cursor),
	}

	slog.Debug("Henter issue-side", "repo", owner+"/"+name, "cursor", cursor)
	if err := f.Client.Query(ctx, &q, variables); err != nil {
		return Page[models.Issue]{}, err
	}

	if q.Repository == nil {
		return Page[models.Issue]{}, fmt.Errorf("%w: fant ikke repo %s/%s", ErrNotFound, owner, name)
	}

	conn := q.Repository.Issues
	issues := make([]models.Issue, 0, len(conn.Nodes))
	for _, n := range conn.Nodes {
		issues = append(issues, convertIssue(n))
	}

	return Page[models.Issue]{
		Items:       issues,
		EndCursor:   conn.PageInfo.cursor(),
		HasNextPage: bool(conn.PageInfo.HasNextPage),
	}, nil
}

// GetIssues henter alle issues for ett repo.
func (f *IssueFetcher) GetIssues(ctx context.Context, owner, name string) ([]models.Issue, error) {
	return Paginate(ctx, func(ctx context.Context, cursor *string) (Page[models.Issue], error) {
		return f.GetIssuesPage(ctx, owner, name, cursor)
	})
}

func convertIssue(n issueNode) models.Issue {
	assignees := make([]string, 0, len(n.Assignees.Nodes))
	for _, a := range n.Assignees.Nodes {
		assignees = append(assignees, string(a.Login))
	}

	var closedAt *time.Time
	if n.ClosedAt != nil {
		t := n.ClosedAt.Time
		closedAt = &t
	}

	return models.Issue{
		ID:        string(n.ID),
		Number:    int(n.Number),
		Title:     string(n.Title),
		Closed:    bool(n.Closed),
		CreatedAt: n.CreatedAt.Time,
		ClosedAt:  closedAt,
		Assignees: assignees,
	}
}
