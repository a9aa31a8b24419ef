// Package cli contains the apex/log handler used by nimbus-cli to write
// to the terminal.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/apex/log"
	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	"github.com/mitchellh/go-wordwrap"
)

// Default handler outputting to stderr.
var Default = New(os.Stderr)

var bold = color.New(color.Bold)

// Colors mapping.
var Colors = [...]*color.Color{
	log.DebugLevel: color.New(color.FgWhite),
	log.InfoLevel:  color.New(color.FgBlue),
	log.WarnLevel:  color.New(color.FgYellow),
	log.ErrorLevel: color.New(color.FgRed),
	log.FatalLevel: color.New(color.FgRed),
}

// Strings mapping.
var Strings = [...]string{
	log.DebugLevel: "•",
	log.InfoLevel:  "•",
	log.WarnLevel:  "•",
	log.ErrorLevel: "⨯",
	log.FatalLevel: "⨯",
}

var (
	promptSign    = color.New(color.FgCyan)
	promptCommand = color.New(color.FgYellow)
	tableHeader   = color.New(color.Italic, color.Underline)
)

// Widths of the slug and features columns of the experiments table.
const (
	slugWidth     = 66
	featuresWidth = 31
	branchesWidth = 40
)

// Handler implementation.
type Handler struct {
	mu      sync.Mutex
	Writer  io.Writer
	Padding int
}

// New handler.
func New(w io.Writer) *Handler {
	if f, ok := w.(*os.File); ok {
		return &Handler{
			Writer:  colorable.NewColorable(f),
			Padding: 3,
		}
	}

	return &Handler{
		Writer:  w,
		Padding: 3,
	}
}

func logPrompt(w io.Writer, f log.Fields) error {
	_, err := fmt.Fprintf(w, "%s %s\n", promptSign.Sprint("$"), promptCommand.Sprint(f.Get("command")))
	return err
}

func logSectionTitle(w io.Writer, f log.Fields) error {
	title := f.Get("title").(string)
	colWidth := EscapeAwareRuneCountInString(title)
	fmt.Fprint(w, "┏"+strings.Repeat("━", colWidth+2)+"┓\n")
	fmt.Fprintf(w, "┃ %s ┃\n", RightPad(title, colWidth))
	_, err := fmt.Fprint(w, "┗"+strings.Repeat("━", colWidth+2)+"┛\n")
	return err
}

func logExperimentHeader(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s|%s|%s\n",
		RightPad(tableHeader.Sprint("Experiment slug"), slugWidth),
		RightPad(tableHeader.Sprint(" Features"), featuresWidth),
		RightPad(tableHeader.Sprint(" Branches"), branchesWidth),
	)
	return err
}

// logExperimentRow writes a table row; long branch lists continue on the
// following lines, below the branches column.
func logExperimentRow(w io.Writer, f log.Fields) error {
	slug, _ := f.Get("slug").(string)
	features, _ := f.Get("features").([]string)
	branches, _ := f.Get("branches").([]string)
	lines := strings.Split(wordwrap.WrapString(strings.Join(branches, ", "), branchesWidth), "\n")
	for idx, line := range lines {
		var first, second string
		if idx == 0 {
			first, second = slug, strings.Join(features, ", ")
		}
		_, err := fmt.Fprintf(w, " %s| %s| %s\n",
			RightPad(first, slugWidth-1),
			RightPad(second, featuresWidth-1),
			line,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// TypedLog is used for handling special "typed" logs to the CLI
func (h *Handler) TypedLog(t string, e *log.Entry) error {
	switch t {
	case "prompt":
		return logPrompt(h.Writer, e.Fields)
	case "section_title":
		return logSectionTitle(h.Writer, e.Fields)
	case "experiment_header":
		return logExperimentHeader(h.Writer)
	case "experiment_row":
		return logExperimentRow(h.Writer, e.Fields)
	default:
		return h.DefaultLog(e)
	}
}

// DefaultLog is the default way of printing out logs
func (h *Handler) DefaultLog(e *log.Entry) error {
	color := Colors[e.Level]
	level := Strings[e.Level]
	names := e.Fields.Names()

	s := color.Sprintf("%s %-25s", bold.Sprintf("%*s", h.Padding+1, level), e.Message)
	for _, name := range names {
		if name == "source" {
			continue
		}
		s += fmt.Sprintf(" %s=%v", color.Sprint(name), e.Fields.Get(name))
	}

	fmt.Fprintln(h.Writer, s)
	return nil
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, isTyped := e.Fields["type"].(string)
	if isTyped {
		return h.TypedLog(t, e)
	}

	return h.DefaultLog(e)
}
