package orchestrator

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-mdtemplate/pkg/preprocess"
)

// Settings is the preprocessor's option block.
type Settings struct {
	// Paths lists data files (or glob patterns) merged into the context, in
	// order.
	Paths []string `yaml:"paths" json:"paths"`
}

// ConfigError reports a missing or malformed option block. It is fatal and is
// raised before any data file is touched.
type ConfigError struct {
	Section string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config [%s]: %s", e.Section, e.Reason)
}

// SettingsFromConfig reads `preprocessor.<name>` from the host configuration.
// Keys other than `paths` are ignored; mdBook itself adds `command`, `before`,
// `after`, and `renderers` to the same table.
func SettingsFromConfig(cfg preprocess.Config, name string) (Settings, error) {
	section := "preprocessor." + name

	table, ok := cfg.Table(section)
	if !ok {
		return Settings{}, &ConfigError{Section: section, Reason: "missing section with a `paths` array"}
	}
	return settingsFromTable(section, table)
}

func settingsFromTable(section string, table map[string]any) (Settings, error) {
	raw, ok := table["paths"]
	if !ok {
		return Settings{}, &ConfigError{Section: section, Reason: "missing `paths` array"}
	}
	list, ok := raw.([]any)
	if !ok {
		return Settings{}, &ConfigError{Section: section, Reason: fmt.Sprintf("`paths` must be an array, got %T", raw)}
	}

	paths := make([]string, 0, len(list))
	for i, entry := range list {
		path, ok := entry.(string)
		if !ok {
			return Settings{}, &ConfigError{Section: section, Reason: fmt.Sprintf("paths[%d] must be a string, got %T", i, entry)}
		}
		paths = append(paths, path)
	}
	return Settings{Paths: paths}, nil
}

// LoadSettingsFile reads a standalone YAML (or JSON) settings file, used when
// rendering outside mdBook.
func LoadSettingsFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, &ConfigError{Section: path, Reason: err.Error()}
	}
	if strings.TrimSpace(string(data)) == "" {
		return Settings{}, &ConfigError{Section: path, Reason: "file is empty"}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Settings{}, &ConfigError{Section: path, Reason: fmt.Sprintf("invalid YAML: %v", err)}
	}
	return settingsFromTable(path, raw)
}
