package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonmartinstorm/issuesnusern/internal/models"
)

const (
	StatusField   = "Status"
	PlatformField = "Platform"

	StatusTodo       = "Todo"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

// FieldOptions er et single-select-felt på tavla med opsjonsnavn -> opsjons-ID.
type FieldOptions struct {
	ID      string
	Options map[string]string
}

func (f FieldOptions) Option(name string) (string, bool) {
	id, ok := f.Options[name]
	return id, ok
}

// Fields er tavlas single-select-felt etter navn. Et felt som mangler er ikke
// konfigurert og hoppes over.
type Fields map[string]FieldOptions

func (f Fields) Lookup(name string) (FieldOptions, bool) {
	field, ok := f[name]
	return field, ok
}

// FieldValue er én feltoppdatering for et tavle-element.
type FieldValue struct {
	Field    string
	FieldID  string
	OptionID string
}

func IssueStatusName(issue models.Issue) string {
	switch {
	case issue.Closed:
		return StatusDone
	case issue.HasAssignee():
		return StatusInProgress
	default:
		return StatusTodo
	}
}

// PlatformMap mapper reponavn til Platform-opsjon.
type PlatformMap map[string]string

func DefaultPlatformMap() PlatformMap {
	return PlatformMap{
		"status-react":   "Mobile",
		"status-desktop": "Desktop",
		"status-web":     "Web",
	}
}

func (p PlatformMap) RepoPlatformName(repo models.Repository) (string, bool) {
	name, ok := p[repo.Name]
	return name, ok
}

// LoadPlatformMap leser en YAML-fil med repo: plattform. Tom sti gir standardverdiene.
func LoadPlatformMap(path string) (PlatformMap, error) {
	if path == "" {
		return DefaultPlatformMap(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kunne ikke lese plattform-fil %s: %w", path, err)
	}

	m := PlatformMap{}
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("ugyldig YAML i %s: %w", path, err)
	}
	return m, nil
}

// FieldValues finner feltene som skal settes for issuet. Felt eller opsjoner
// som ikke finnes på tavla blir utelatt.
func FieldValues(fields Fields, platforms PlatformMap, repo models.Repository, issue models.Issue) []FieldValue {
	var values []FieldValue

	if status, ok := fields.Lookup(StatusField); ok {
		if opt, ok := status.Option(IssueStatusName(issue)); ok {
			values = append(values, FieldValue{Field: StatusField, FieldID: status.ID, OptionID: opt})
		}
	}

	if platform, ok := fields.Lookup(PlatformField); ok {
		if name, ok := platforms.RepoPlatformName(repo); ok {
			if opt, ok := platform.Option(name); ok {
				values = append(values, FieldValue{Field: PlatformField, FieldID: platform.ID, OptionID: opt})
			}
		}
	}

	return values
}
