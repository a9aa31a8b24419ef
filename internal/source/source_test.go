package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nimbus-devtools/nimbus-cli/internal/errorsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/jsonx"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
)

const listJSON = `{"data": [
	{"slug": "my-experiment", "appName": "fenix", "branches": [{"slug": "control"}], "featureIds": ["f1"]},
	{"slug": "other", "appName": "focus_android", "branches": [{"slug": "a"}], "featureIds": []}
]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveListFromFile(t *testing.T) {
	r := &Resolver{}

	t.Run("on success", func(t *testing.T) {
		file := writeFile(t, "list.json", listJSON)
		doc, err := r.ResolveList(context.Background(), &model.FileList{File: file})
		if err != nil {
			t.Fatal(err)
		}
		data, err := jsonx.DataList(doc)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) != 2 {
			t.Fatal("unexpected number of records", len(data))
		}
	})

	t.Run("when the file does not exist", func(t *testing.T) {
		_, err := r.ResolveList(context.Background(), &model.FileList{File: "/nonexistent/list.json"})
		if !errors.Is(err, errorsx.ErrInvalidSource) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("when the file is a directory", func(t *testing.T) {
		_, err := r.ResolveList(context.Background(), &model.FileList{File: t.TempDir()})
		if !errors.Is(err, errorsx.ErrInvalidSource) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("with comments and trailing commas", func(t *testing.T) {
		file := writeFile(t, "list.json", `{
			// hand edited
			"data": [{"slug": "exp1", "appName": "fenix", "branches": [], "featureIds": [],},],
		}`)
		doc, err := r.ResolveList(context.Background(), &model.FileList{File: file})
		if err != nil {
			t.Fatal(err)
		}
		data, err := jsonx.DataList(doc)
		if err != nil || len(data) != 1 {
			t.Fatal("unexpected records", data, err)
		}
	})

	t.Run("with unquoted keys", func(t *testing.T) {
		file := writeFile(t, "list.json", `{data: []}`)
		_, err := r.ResolveList(context.Background(), &model.FileList{File: file})
		if !errors.Is(err, errorsx.ErrInvalidSource) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("when the file is not JSON", func(t *testing.T) {
		file := writeFile(t, "list.json", `{"data": [`)
		_, err := r.ResolveList(context.Background(), &model.FileList{File: file})
		if !errors.Is(err, errorsx.ErrInvalidSource) {
			t.Fatal("unexpected error", err)
		}
	})
}

func TestResolveListFromRemoteSettings(t *testing.T) {
	t.Run("on success", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(listJSON))
		}))
		defer server.Close()

		r := NewResolver(model.DiscardLogger, "nimbus-cli/test")
		doc, err := r.ResolveList(context.Background(), &model.RemoteSettingsList{
			Endpoint:  server.URL + "/",
			IsPreview: true,
		})
		if err != nil {
			t.Fatal(err)
		}
		if gotPath != "/v1/buckets/main/collections/nimbus-preview/records" {
			t.Fatal("unexpected path", gotPath)
		}
		expect, _ := jsonx.Parse([]byte(listJSON))
		if diff := cmp.Diff(expect, doc); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("when the server is unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		URL := server.URL
		server.Close()

		r := NewResolver(model.DiscardLogger, "nimbus-cli/test")
		_, err := r.ResolveList(context.Background(), &model.RemoteSettingsList{Endpoint: URL})
		if !errors.Is(err, errorsx.ErrSourceUnavailable) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("when the server fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		r := NewResolver(model.DiscardLogger, "nimbus-cli/test")
		_, err := r.ResolveList(context.Background(), &model.RemoteSettingsList{Endpoint: server.URL})
		if !errors.Is(err, errorsx.ErrSourceUnavailable) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("when the body is not JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		}))
		defer server.Close()

		r := NewResolver(model.DiscardLogger, "nimbus-cli/test")
		_, err := r.ResolveList(context.Background(), &model.RemoteSettingsList{Endpoint: server.URL})
		if !errors.Is(err, errorsx.ErrInvalidSource) {
			t.Fatal("unexpected error", err)
		}
	})
}

func TestResolveFromList(t *testing.T) {
	file := writeFile(t, "list.json", listJSON)
	list := &model.FileList{File: file}
	r := &Resolver{}

	t.Run("with an existing slug", func(t *testing.T) {
		record, err := r.Resolve(context.Background(), &model.ListExperiment{Slug: "my-experiment", List: list})
		if err != nil {
			t.Fatal(err)
		}
		expect := map[string]any{
			"slug":       "my-experiment",
			"appName":    "fenix",
			"branches":   []any{map[string]any{"slug": "control"}},
			"featureIds": []any{"f1"},
		}
		if diff := cmp.Diff(expect, record); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with a missing slug", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), &model.ListExperiment{Slug: "missing", List: list})
		if !errors.Is(err, errorsx.ErrExperimentNotFound) {
			t.Fatal("unexpected error", err)
		}
		if err.Error() != "'missing': experiment not found" {
			t.Fatal("unexpected message", err)
		}
	})
}

func TestResolveValidatesRecords(t *testing.T) {
	cases := []struct {
		name   string
		record string
		field  string
	}{{
		name:   "without appName",
		record: `{"slug": "x", "branches": [], "featureIds": []}`,
		field:  "appName",
	}, {
		name:   "without branches",
		record: `{"slug": "x", "appName": "fenix", "featureIds": []}`,
		field:  "branches",
	}, {
		name:   "with a branch without slug",
		record: `{"slug": "x", "appName": "fenix", "branches": [{}], "featureIds": []}`,
		field:  "slug",
	}, {
		name:   "without featureIds",
		record: `{"slug": "x", "appName": "fenix", "branches": []}`,
		field:  "featureIds",
	}}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			file := writeFile(t, "list.json", `{"data": [`+tc.record+`]}`)
			_, err := (&Resolver{}).Resolve(context.Background(), &model.ListExperiment{
				Slug: "x",
				List: &model.FileList{File: file},
			})
			var fe *jsonx.FieldError
			if !errors.As(err, &fe) || fe.Field != tc.field {
				t.Fatal("unexpected error", err)
			}
			if !errors.Is(err, errorsx.ErrMissingField) {
				t.Fatal("expected a missing field", err)
			}
		})
	}

	t.Run("when a record in the list lacks a slug", func(t *testing.T) {
		file := writeFile(t, "list.json", `{"data": [{"appName": "fenix"}]}`)
		_, err := (&Resolver{}).Resolve(context.Background(), &model.ListExperiment{
			Slug: "x",
			List: &model.FileList{File: file},
		})
		if !errors.Is(err, errorsx.ErrMissingField) {
			t.Fatal("unexpected error", err)
		}
	})
}

func TestResolveFromFeatureFiles(t *testing.T) {
	file := writeFile(t, "features.yaml", "messaging:\n  enabled: true\n")
	record, err := (&Resolver{}).Resolve(context.Background(), &model.FeatureFilesExperiment{
		App:       model.NimbusApp{AppName: "fenix"},
		FeatureID: "messaging",
		Files:     []string{file},
	})
	if err != nil {
		t.Fatal(err)
	}
	if record["slug"] != "messaging-local" {
		t.Fatal("unexpected slug", record["slug"])
	}
}
