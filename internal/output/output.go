// Package output emits the typed log events that the CLI log handler
// renders as shell prompts and tables.
package output

import (
	"github.com/apex/log"
)

// Prompt logs a command line as if it were typed at a shell prompt.
func Prompt(command string) {
	log.WithFields(log.Fields{
		"type":    "prompt",
		"command": command,
	}).Info(command)
}

// Comment logs a shell style comment line.
func Comment(msg string) {
	Prompt("# " + msg)
}

// SectionTitle logs a section title.
func SectionTitle(title string) {
	log.WithFields(log.Fields{
		"type":  "section_title",
		"title": title,
	}).Info(title)
}

// ExperimentHeader logs the header of the experiments table.
func ExperimentHeader() {
	log.WithFields(log.Fields{
		"type": "experiment_header",
	}).Info("experiments")
}

// ExperimentRowData is one row of the experiments table.
type ExperimentRowData struct {
	Slug     string
	Features []string
	Branches []string
}

// ExperimentRow logs a row of the experiments table.
func ExperimentRow(row ExperimentRowData) {
	log.WithFields(log.Fields{
		"type":     "experiment_row",
		"slug":     row.Slug,
		"features": row.Features,
		"branches": row.Branches,
	}).Info(row.Slug)
}
