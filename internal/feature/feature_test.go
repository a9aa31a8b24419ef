package feature

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nimbus-devtools/nimbus-cli/internal/errorsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreateExperiment(t *testing.T) {
	app := model.NimbusApp{AppName: "fenix", Channel: "developer"}
	dir := t.TempDir()
	first := writeFile(t, dir, "first.json", `{
		"homescreen": {"sections-enabled": {"top-sites": true}, "title": "old"},
		"messaging": {"enabled": false}
	}`)
	second := writeFile(t, dir, "second.yaml", "homescreen:\n  title: new\n  count: 3\n")

	t.Run("merges values in file order", func(t *testing.T) {
		exp, err := CreateExperiment(app, "homescreen", []string{first, second})
		if err != nil {
			t.Fatal(err)
		}
		if exp["slug"] != "homescreen-local" || exp["appName"] != "fenix" || exp["channel"] != "developer" {
			t.Fatal("unexpected identity", exp["slug"], exp["appName"], exp["channel"])
		}
		if diff := cmp.Diff([]any{"homescreen"}, exp["featureIds"]); diff != "" {
			t.Fatal(diff)
		}
		branches := exp["branches"].([]any)
		if len(branches) != 1 {
			t.Fatal("expected one branch")
		}
		branch := branches[0].(map[string]any)
		if branch["slug"] != BranchSlug {
			t.Fatal("unexpected branch", branch["slug"])
		}
		value := branch["feature"].(map[string]any)["value"]
		expect := map[string]any{
			"sections-enabled": map[string]any{"top-sites": true},
			"title":            "new",
			"count":            3,
		}
		if diff := cmp.Diff(expect, value); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("when the feature is absent", func(t *testing.T) {
		_, err := CreateExperiment(app, "onboarding", []string{first})
		if !errors.Is(err, errorsx.ErrInvalidSource) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("when a file is missing", func(t *testing.T) {
		_, err := CreateExperiment(app, "homescreen", []string{first, filepath.Join(dir, "missing.json")})
		if !errors.Is(err, errorsx.ErrInvalidSource) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("when a file is not a mapping", func(t *testing.T) {
		list := writeFile(t, dir, "list.json", `[1, 2, 3]`)
		_, err := CreateExperiment(app, "homescreen", []string{list})
		if !errors.Is(err, errorsx.ErrInvalidSource) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("when a file cannot be parsed", func(t *testing.T) {
		broken := writeFile(t, dir, "broken.yaml", "homescreen: [\n")
		_, err := CreateExperiment(app, "homescreen", []string{broken})
		if !errors.Is(err, errorsx.ErrInvalidSource) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("without files", func(t *testing.T) {
		_, err := CreateExperiment(app, "homescreen", nil)
		if !errors.Is(err, errorsx.ErrInvalidSource) {
			t.Fatal("unexpected error", err)
		}
	})
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"nested": map[any]any{1: "one", "two": []any{map[any]any{true: "yes"}}},
	}
	expect := map[string]any{
		"nested": map[string]any{"1": "one", "two": []any{map[string]any{"true": "yes"}}},
	}
	if diff := cmp.Diff(expect, normalize(in)); diff != "" {
		t.Fatal(diff)
	}
}
