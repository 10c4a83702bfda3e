package main

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonmartinstorm/issuesnusern/internal/config"
	"github.com/jonmartinstorm/issuesnusern/internal/fetcher"
	"github.com/jonmartinstorm/issuesnusern/internal/project"
	"github.com/jonmartinstorm/issuesnusern/internal/webhook"
)

func newWebhookCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Lytt på issue-webhooks og hold prosjekttavla oppdatert",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg := config.LoadConfig(v)
			if err := config.ValidateWebhookConfig(cfg); err != nil {
				return err
			}

			var repos *regexp.Regexp
			if cfg.ReposRegex != "" {
				re, err := regexp.Compile(cfg.ReposRegex)
				if err != nil {
					return fmt.Errorf("ugyldig --repos-regex: %w", err)
				}
				repos = re
			}

			client, err := fetcher.NewGraphQLClient(ctx, cfg)
			if err != nil {
				return err
			}
			platforms, err := project.LoadPlatformMap(cfg.PlatformMapFile)
			if err != nil {
				return err
			}
			board, err := project.NewBoard(ctx, client, cfg.Org, cfg.ProjectNumber, platforms, cfg.Parallelism)
			if err != nil {
				return err
			}

			srv := webhook.NewServer(cfg.WebhookAddr, webhook.NewHandler(cfg.WebhookSecret, board, repos))
			return webhook.Serve(ctx, srv)
		},
	}

	cmd.Flags().String(config.KeyWebhookAddr, config.DefaultWebhookAddress, "adressen serveren lytter på")
	cmd.Flags().String(config.KeyWebhookSecret, "", "hemmeligheten webhooken signeres med (GITHUB_WEBHOOKS_SECRET)")
	return cmd
}
