package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/spf13/viper"
)

type OutputType string

const (
	OutputJSON     OutputType = "json"
	OutputProject  OutputType = "project"
	OutputSQL      OutputType = "sql"
	OutputElastic  OutputType = "elastic"
	OutputBigQuery OutputType = "bigquery"
)

// Nøkler brukt både som flaggnavn og viper-nøkler.
const (
	KeyGitHubToken       = "github-token"
	KeyGitHubOrg         = "github-org"
	KeyGraphQLURL        = "github-graphql-url"
	KeyAppID             = "github-app-id"
	KeyAppInstallationID = "github-app-installation-id"
	KeyAppKeyFile        = "github-app-key-file"
	KeyOutput            = "output"
	KeyProjectNumber     = "output-project-number"
	KeyJSONFile          = "output-json-file"
	KeySQLURL            = "output-sql-url"
	KeySQLRecreate       = "sql-recreate"
	KeyElasticURL        = "output-elastic-url"
	KeyElasticIndex      = "output-elastic-index"
	KeyBQProject         = "output-bq-project"
	KeyBQDataset         = "output-bq-dataset"
	KeyBQCredentials     = "output-bq-credentials"
	KeyPlatformMap       = "platform-map"
	KeyReposRegex        = "repos-regex"
	KeyParallelism       = "parallelism"
	KeyDryRun            = "dry-run"
	KeyDebug             = "debug"
	KeyLogFile           = "log-file"
	KeyWebhookAddr       = "webhook-addr"
	KeyWebhookSecret     = "webhook-secret"
)

const (
	DefaultOrg            = "status-im"
	DefaultReposRegex     = `^status-(react|desktop|web)$`
	DefaultElasticIndex   = "issues"
	DefaultWebhookAddress = ":3000"
)

// envNames er miljøvariablene som leses når flagget ikke er satt.
var envNames = map[string][]string{
	KeyGitHubToken:       {"GITHUB_AUTH_TOKEN", "GITHUB_TOKEN"},
	KeyGitHubOrg:         {"GITHUB_ORG", "ORG"},
	KeyGraphQLURL:        {"GITHUB_GRAPHQL_URL"},
	KeyAppID:             {"GITHUB_APP_ID"},
	KeyAppInstallationID: {"GITHUB_APP_INSTALLATION_ID"},
	KeyAppKeyFile:        {"GITHUB_APP_KEY_FILE"},
	KeySQLURL:            {"POSTGRES_DSN", "SQL_URL"},
	KeyElasticURL:        {"ELASTIC_URL"},
	KeyBQProject:         {"BQ_PROJECT_ID"},
	KeyBQDataset:         {"BQ_DATASET"},
	KeyBQCredentials:     {"BQ_CREDENTIALS"},
	KeyDebug:             {"ISSUESNUSERN_DEBUG"},
	KeyLogFile:           {"ISSUESNUSERN_LOG_FILE"},
	KeyWebhookSecret:     {"GITHUB_WEBHOOKS_SECRET"},
}

// TokenForHost kan byttes ut i tester. Brukes når verken token eller GitHub App er satt.
var TokenForHost = auth.TokenForHost

type Config struct {
	Org               string
	Token             string
	GraphQLURL        string
	AppID             int64
	AppInstallationID int64
	AppKeyFile        string

	Outputs         []OutputType
	ProjectNumber   int
	JSONFile        string
	SQLURL          string
	SQLRecreate     bool
	ElasticURL      string
	ElasticIndex    string
	BQProjectID     string
	BQDataset       string
	BQCredentials   string // Valgfritt hvis GCP auth skjer automatisk
	PlatformMapFile string

	ReposRegex  string
	Repos       *regexp.Regexp
	Parallelism int // maks antall samtidige issue-oppdateringer mot prosjekttavla
	DryRun      bool
	Debug       bool
	LogFile     string

	WebhookAddr   string
	WebhookSecret string
}

// BindEnv kobler viper-nøklene til miljøvariablene de kan hentes fra.
func BindEnv(v *viper.Viper) error {
	for key, names := range envNames {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("kunne ikke binde env for %s: %w", key, err)
		}
	}
	return nil
}

// LoadConfig leser verdiene fra viper uten å validere dem.
func LoadConfig(v *viper.Viper) Config {
	outputs := []OutputType{}
	for _, o := range v.GetStringSlice(KeyOutput) {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				outputs = append(outputs, OutputType(part))
			}
		}
	}

	cfg := Config{
		Org:               v.GetString(KeyGitHubOrg),
		Token:             v.GetString(KeyGitHubToken),
		GraphQLURL:        v.GetString(KeyGraphQLURL),
		AppID:             v.GetInt64(KeyAppID),
		AppInstallationID: v.GetInt64(KeyAppInstallationID),
		AppKeyFile:        v.GetString(KeyAppKeyFile),
		Outputs:           outputs,
		ProjectNumber:     v.GetInt(KeyProjectNumber),
		JSONFile:          v.GetString(KeyJSONFile),
		SQLURL:            v.GetString(KeySQLURL),
		SQLRecreate:       v.GetBool(KeySQLRecreate),
		ElasticURL:        v.GetString(KeyElasticURL),
		ElasticIndex:      v.GetString(KeyElasticIndex),
		BQProjectID:       v.GetString(KeyBQProject),
		BQDataset:         v.GetString(KeyBQDataset),
		BQCredentials:     v.GetString(KeyBQCredentials),
		PlatformMapFile:   v.GetString(KeyPlatformMap),
		ReposRegex:        v.GetString(KeyReposRegex),
		Parallelism:       v.GetInt(KeyParallelism),
		DryRun:            v.GetBool(KeyDryRun),
		Debug:             v.GetBool(KeyDebug),
		LogFile:           v.GetString(KeyLogFile),
		WebhookAddr:       v.GetString(KeyWebhookAddr),
		WebhookSecret:     v.GetString(KeyWebhookSecret),
	}

	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	if cfg.ElasticIndex == "" {
		cfg.ElasticIndex = DefaultElasticIndex
	}
	if cfg.Token == "" && !cfg.UsesGitHubApp() {
		if token, source := TokenForHost(cfg.Host()); token != "" {
			slog.Debug("Bruker GitHub-token fra gh", "kilde", source)
			cfg.Token = token
		}
	}
	return cfg
}

// UsesGitHubApp er sann når alt som trengs for installasjons-auth er satt.
func (c Config) UsesGitHubApp() bool {
	return c.AppID != 0 && c.AppInstallationID != 0 && c.AppKeyFile != ""
}

// Host returnerer GitHub-verten tokenet gjelder for.
func (c Config) Host() string {
	if c.GraphQLURL == "" {
		return "github.com"
	}
	u, err := url.Parse(c.GraphQLURL)
	if err != nil || u.Host == "" {
		return "github.com"
	}
	if u.Host == "api.github.com" {
		return "github.com"
	}
	return u.Host
}

func (c Config) HasOutput(o OutputType) bool {
	for _, out := range c.Outputs {
		if out == o {
			return true
		}
	}
	return false
}

// ValidateConfig sjekker at konfigurasjonen holder for en synk-kjøring.
func ValidateConfig(cfg Config) error {
	if err := validateSource(cfg); err != nil {
		return err
	}
	if len(cfg.Outputs) == 0 {
		return errors.New("--output må være satt")
	}
	if cfg.ReposRegex != "" {
		if _, err := regexp.Compile(cfg.ReposRegex); err != nil {
			return fmt.Errorf("ugyldig --repos-regex: %w", err)
		}
	}

	for _, o := range cfg.Outputs {
		switch o {
		case OutputJSON:
		case OutputProject:
			if cfg.ProjectNumber <= 0 {
				return errors.New("--output-project-number må være satt for project")
			}
		case OutputSQL:
			if cfg.SQLURL == "" {
				return errors.New("--output-sql-url (POSTGRES_DSN) må være satt for sql")
			}
		case OutputElastic:
			if cfg.ElasticURL == "" {
				return errors.New("--output-elastic-url (ELASTIC_URL) må være satt for elastic")
			}
		case OutputBigQuery:
			if cfg.BQProjectID == "" || cfg.BQDataset == "" {
				return errors.New("--output-bq-project og --output-bq-dataset må være satt for bigquery")
			}
		default:
			return fmt.Errorf("ugyldig output %q – må være json, project, sql, elastic eller bigquery", o)
		}
	}
	return nil
}

// ValidateWebhookConfig sjekker konfigurasjonen for webhook-lytteren.
func ValidateWebhookConfig(cfg Config) error {
	if err := validateSource(cfg); err != nil {
		return err
	}
	if cfg.WebhookSecret == "" {
		return errors.New("--webhook-secret (GITHUB_WEBHOOKS_SECRET) må være satt")
	}
	if cfg.ProjectNumber <= 0 {
		return errors.New("--output-project-number må være satt for webhook")
	}
	return nil
}

func validateSource(cfg Config) error {
	if cfg.Org == "" {
		return errors.New("--github-org (GITHUB_ORG) må være satt")
	}
	if cfg.Token == "" && !cfg.UsesGitHubApp() {
		return errors.New("--github-token (GITHUB_AUTH_TOKEN) eller GitHub App må være satt")
	}
	return nil
}

// LoadAndValidateConfig laster, validerer og kompilerer repo-filteret.
func LoadAndValidateConfig(v *viper.Viper) (Config, error) {
	cfg := LoadConfig(v)
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	if cfg.ReposRegex != "" {
		cfg.Repos = regexp.MustCompile(cfg.ReposRegex)
	}
	return cfg, nil
}
