package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonmartinstorm/issuesnusern/internal/config"
	"github.com/jonmartinstorm/issuesnusern/internal/fetcher"
	"github.com/jonmartinstorm/issuesnusern/internal/logger"
	"github.com/jonmartinstorm/issuesnusern/internal/runner"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var logCloser io.Closer

	root := &cobra.Command{
		Use:   "issuesnusern",
		Short: "Synker GitHub-issues til prosjekttavle, database, søkeindeks eller JSON",
		Long: `Henter alle issues fra valgte repos i en GitHub-organisasjon og skriver dem
til én eller flere outputs. Flagg kan også settes via miljøvariabler eller .env.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := config.BindEnv(v); err != nil {
				return err
			}
			logCloser = logger.SetupLogger(v.GetString(config.KeyLogFile))
			logger.SetDebug(v.GetBool(config.KeyDebug))
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, v)
		},
	}

	pf := root.PersistentFlags()
	pf.String(config.KeyGitHubToken, "", "GitHub-token (GITHUB_AUTH_TOKEN)")
	pf.String(config.KeyGitHubOrg, config.DefaultOrg, "organisasjonen det hentes fra (GITHUB_ORG)")
	pf.String(config.KeyGraphQLURL, "", "GraphQL-endepunkt for GitHub Enterprise")
	pf.Int64(config.KeyAppID, 0, "GitHub App-ID")
	pf.Int64(config.KeyAppInstallationID, 0, "GitHub App-installasjons-ID")
	pf.String(config.KeyAppKeyFile, "", "privatnøkkel for GitHub App")
	pf.Int(config.KeyProjectNumber, 0, "nummeret til prosjekttavla (fra URL-en)")
	pf.String(config.KeySQLURL, "", "database-URL, postgres:// eller sqlite:// (POSTGRES_DSN)")
	pf.String(config.KeyPlatformMap, "", "YAML-fil med repo: plattform")
	pf.String(config.KeyReposRegex, config.DefaultReposRegex, "regex for reponavn som tas med")
	pf.Int(config.KeyParallelism, 1, "maks samtidige oppdateringer mot prosjekttavla")
	pf.Bool(config.KeyDebug, false, "debug-logging (ISSUESNUSERN_DEBUG)")
	pf.String(config.KeyLogFile, "", "skriv logg også til roterende fil")

	f := root.Flags()
	f.StringSlice(config.KeyOutput, []string{string(config.OutputJSON)}, "json, project, sql, elastic eller bigquery (kan gjentas)")
	f.String(config.KeyJSONFile, "", "fil for JSON-output, stdout hvis tom")
	f.Bool(config.KeySQLRecreate, false, "slett og opprett issues-tabellen før import")
	f.String(config.KeyElasticURL, "", "Elasticsearch-URL (ELASTIC_URL)")
	f.String(config.KeyElasticIndex, config.DefaultElasticIndex, "navn på indeksen")
	f.String(config.KeyBQProject, "", "GCP-prosjekt for BigQuery")
	f.String(config.KeyBQDataset, "", "BigQuery-dataset")
	f.String(config.KeyBQCredentials, "", "credentials-fil for BigQuery")
	f.Bool(config.KeyDryRun, false, "hent og logg, men skriv ikke til noen output")

	root.AddCommand(newWebhookCmd(v), newChartCmd(v))
	return root
}

func runSync(cmd *cobra.Command, v *viper.Viper) error {
	ctx := cmd.Context()

	cfg, err := config.LoadAndValidateConfig(v)
	if err != nil {
		return err
	}

	client, err := fetcher.NewGraphQLClient(ctx, cfg)
	if err != nil {
		return err
	}

	var writers []runner.Writer
	if !cfg.DryRun {
		writers, err = runner.BuildWriters(ctx, cfg, client)
		if err != nil {
			return err
		}
	}

	app := runner.NewApp(cfg, fetcher.NewIssueFetcher(client), writers...)
	return runner.RunAppSafe(ctx, app)
}
