package output

import (
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/google/go-cmp/cmp"
)

func withMemoryHandler(t *testing.T) *memory.Handler {
	prev := log.Log.(*log.Logger).Handler
	handler := memory.New()
	log.SetHandler(handler)
	t.Cleanup(func() {
		log.SetHandler(prev)
	})
	return handler
}

func TestTypedEvents(t *testing.T) {
	handler := withMemoryHandler(t)
	Prompt("adb shell \"pm clear org.mozilla.fenix\"")
	Comment("Resetting the app")
	SectionTitle("Experiments")
	ExperimentHeader()
	ExperimentRow(ExperimentRowData{
		Slug:     "exp1",
		Features: []string{"f1"},
		Branches: []string{"control", "treatment"},
	})

	var types, messages []string
	for _, entry := range handler.Entries {
		types = append(types, entry.Fields.Get("type").(string))
		messages = append(messages, entry.Message)
	}
	expectTypes := []string{"prompt", "prompt", "section_title", "experiment_header", "experiment_row"}
	if diff := cmp.Diff(expectTypes, types); diff != "" {
		t.Fatal(diff)
	}
	expectMessages := []string{
		"adb shell \"pm clear org.mozilla.fenix\"",
		"# Resetting the app",
		"Experiments",
		"experiments",
		"exp1",
	}
	if diff := cmp.Diff(expectMessages, messages); diff != "" {
		t.Fatal(diff)
	}
	row := handler.Entries[4]
	if diff := cmp.Diff([]string{"control", "treatment"}, row.Fields.Get("branches")); diff != "" {
		t.Fatal(diff)
	}
}
