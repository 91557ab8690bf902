package orchestrator_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mdtemplate/pkg/orchestrator"
	"github.com/goliatone/go-mdtemplate/pkg/preprocess"
	"github.com/goliatone/go-mdtemplate/pkg/testsupport"
)

func TestSettingsFromConfig(t *testing.T) {
	cfg := preprocess.Config{
		"preprocessor": map[string]any{
			"template": map[string]any{
				"command": "mdbook-template",
				"before":  []any{"links"},
				"paths":   []any{"docs/book/assets/operators.json", "docs/book/assets/portals.json"},
			},
		},
	}

	got, err := orchestrator.SettingsFromConfig(cfg, orchestrator.DefaultName)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	want := orchestrator.Settings{Paths: []string{"docs/book/assets/operators.json", "docs/book/assets/portals.json"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsFromConfig_EmptyPathsIsValid(t *testing.T) {
	got, err := orchestrator.SettingsFromConfig(configWithPaths(), orchestrator.DefaultName)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if len(got.Paths) != 0 {
		t.Fatalf("expected no paths, got %v", got.Paths)
	}
}

func TestLoadSettingsFile(t *testing.T) {
	dir := t.TempDir()

	path := testsupport.WriteFile(t, dir, "template.yaml", "paths:\n  - data/a.json\n  - data/*.yaml\n")
	got, err := orchestrator.LoadSettingsFile(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if diff := cmp.Diff([]string{"data/a.json", "data/*.yaml"}, got.Paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	for name, body := range map[string]string{
		"empty.yaml":    "",
		"list.yaml":     "- a.json\n",
		"nopaths.yaml":  "other: 1\n",
		"badentry.yaml": "paths:\n  - {a: 1}\n",
	} {
		_, err := orchestrator.LoadSettingsFile(testsupport.WriteFile(t, dir, name, body))
		var cfgErr *orchestrator.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%s: expected ConfigError, got %v", name, err)
		}
	}

	if _, err := orchestrator.LoadSettingsFile(dir + "/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
