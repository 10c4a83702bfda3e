package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/jonmartinstorm/issuesnusern/internal/config"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// GraphQLClient er den delen av *githubv4.Client vi bruker.
type GraphQLClient interface {
	Query(ctx context.Context, q any, variables map[string]any) error
	Mutate(ctx context.Context, m any, input githubv4.Input, variables map[string]any) error
}

// Injecter en klient (for testbarhet)
var HttpClient = http.DefaultClient

// NewHTTPClient lager en autentisert klient. GitHub App går foran token.
func NewHTTPClient(ctx context.Context, cfg config.Config) (*http.Client, error) {
	base := HttpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	if cfg.UsesGitHubApp() {
		itr, err := ghinstallation.NewKeyFromFile(base, cfg.AppID, cfg.AppInstallationID, cfg.AppKeyFile)
		if err != nil {
			return nil, fmt.Errorf("kunne ikke lese GitHub App-nøkkel: %w", err)
		}
		if cfg.GraphQLURL != "" {
			itr.BaseURL = restBaseURL(cfg.GraphQLURL)
		}
		return &http.Client{Transport: itr}, nil
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, HttpClient)
	return oauth2.NewClient(ctx, src), nil
}

// NewGraphQLClient er den ene klienten som sendes til alle som snakker med GitHub.
func NewGraphQLClient(ctx context.Context, cfg config.Config) (*githubv4.Client, error) {
	httpClient, err := NewHTTPClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.GraphQLURL != "" {
		return githubv4.NewEnterpriseClient(cfg.GraphQLURL, httpClient), nil
	}
	return githubv4.NewClient(httpClient), nil
}

// https://ghe.example.com/api/graphql -> https://ghe.example.com/api/v3
func restBaseURL(graphqlURL string) string {
	return strings.TrimSuffix(strings.TrimSuffix(graphqlURL, "/"), "graphql") + "v3"
}

func cursorVar(cursor *string) *githubv4.String {
	if cursor == nil {
		return nil
	}
	return githubv4.NewString(githubv4.String(*cursor))
}

type pageInfo struct {
	EndCursor   *githubv4.String
	HasNextPage githubv4.Boolean
}

func (p pageInfo) cursor() *string {
	if p.EndCursor == nil {
		return nil
	}
	c := string(*p.EndCursor)
	return &c
}
