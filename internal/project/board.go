package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shurcooL/githubv4"
	"golang.org/x/sync/errgroup"

	"github.com/jonmartinstorm/issuesnusern/internal/fetcher"
	"github.com/jonmartinstorm/issuesnusern/internal/models"
)

// Board skriver issues som elementer på en ProjectV2-tavle.
type Board struct {
	Client      fetcher.GraphQLClient
	ProjectID   string
	Fields      Fields
	Platforms   PlatformMap
	Parallelism int
}

type projectQuery struct {
	Organization struct {
		ProjectV2 struct {
			ID     githubv4.String
			Fields struct {
				Nodes []struct {
					SingleSelect struct {
						ID      githubv4.String
						Name    githubv4.String
						Options []struct {
							ID   githubv4.String
							Name githubv4.String
						}
					} `graphql:"... on ProjectV2SingleSelectField"`
				}
			} `graphql:"fields(first: 20)"`
		} `graphql:"projectV2(number: $number)"`
	} `graphql:"organization(login: $org)"`
}

// NewBoard slår opp tavla og feltene én gang.
func NewBoard(ctx context.Context, client fetcher.GraphQLClient, org string, number int, platforms PlatformMap, parallelism int) (*Board, error) {
	var q projectQuery
	vars := map[string]any{
		"org":    githubv4.String(org),
		"number": githubv4.Int(number),
	}
	if err := client.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("kunne ikke hente prosjekt %d for %s: %w", number, org, err)
	}

	projectID := string(q.Organization.ProjectV2.ID)
	if projectID == "" {
		return nil, fmt.Errorf("fant ikke prosjekt %d for %s", number, org)
	}

	fields := Fields{}
	for _, node := range q.Organization.ProjectV2.Fields.Nodes {
		ss := node.SingleSelect
		if ss.Name == "" {
			continue
		}
		opts := make(map[string]string, len(ss.Options))
		for _, o := range ss.Options {
			opts[string(o.Name)] = string(o.ID)
		}
		fields[string(ss.Name)] = FieldOptions{ID: string(ss.ID), Options: opts}
	}

	for _, name := range []string{StatusField, PlatformField} {
		if _, ok := fields.Lookup(name); !ok {
			slog.Warn("Feltet finnes ikke på tavla, hopper over", "field", name, "project", number)
		}
	}

	return &Board{
		Client:      client,
		ProjectID:   projectID,
		Fields:      fields,
		Platforms:   platforms,
		Parallelism: parallelism,
	}, nil
}

func (b *Board) AddItem(ctx context.Context, contentID string) (string, error) {
	var m struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID githubv4.String
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}
	input := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: githubv4.ID(b.ProjectID),
		ContentID: githubv4.ID(contentID),
	}
	if err := b.Client.Mutate(ctx, &m, input, nil); err != nil {
		return "", fmt.Errorf("kunne ikke legge %s på tavla: %w", contentID, err)
	}
	return string(m.AddProjectV2ItemByID.Item.ID), nil
}

func (b *Board) UpdateField(ctx context.Context, itemID string, v FieldValue) error {
	var m struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID githubv4.String
			}
		} `graphql:"updateProjectV2ItemFieldValue(input: $input)"`
	}
	input := githubv4.UpdateProjectV2ItemFieldValueInput{
		ProjectID: githubv4.ID(b.ProjectID),
		ItemID:    githubv4.ID(itemID),
		FieldID:   githubv4.ID(v.FieldID),
		Value: githubv4.ProjectV2FieldValue{
			SingleSelectOptionID: githubv4.NewString(githubv4.String(v.OptionID)),
		},
	}
	if err := b.Client.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("kunne ikke sette %s på %s: %w", v.Field, itemID, err)
	}
	return nil
}

// SyncIssue legger issuet på tavla (idempotent hos GitHub) og setter feltene.
func (b *Board) SyncIssue(ctx context.Context, repo models.Repository, issue models.Issue) error {
	slog.Debug("Synker issue", "issue", fmt.Sprintf("%s#%d", repo.FullName(), issue.Number), "title", issue.Title)

	itemID, err := b.AddItem(ctx, issue.ID)
	if err != nil {
		return err
	}
	for _, v := range FieldValues(b.Fields, b.Platforms, repo, issue) {
		if err := b.UpdateField(ctx, itemID, v); err != nil {
			return err
		}
	}
	return nil
}

func (b *Board) ImportRepo(ctx context.Context, repo models.Repository) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Parallelism, 1))

	for _, issue := range repo.Issues {
		g.Go(func() error {
			return b.SyncIssue(ctx, repo, issue)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("tavle-import feilet for %s: %w", repo.FullName(), err)
	}

	slog.Info("📋 Oppdaterte tavla", "repo", repo.FullName(), "antall", len(repo.Issues))
	return nil
}

func (b *Board) Close() error {
	return nil
}
