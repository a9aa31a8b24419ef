// Package shellxtesting contains mocks for shellx.
package shellxtesting

import (
	"fmt"
	"os/exec"

	"github.com/nimbus-devtools/nimbus-cli/internal/runtimex"
	"github.com/nimbus-devtools/nimbus-cli/internal/shellx"
)

// Library implements shellx.Dependencies.
type Library struct {
	MockCmdOutput func(c *exec.Cmd) ([]byte, error)

	MockCmdRun func(c *exec.Cmd) error

	MockLookPath func(file string) (string, error)
}

var _ shellx.Dependencies = &Library{}

// CmdOutput implements shellx.Dependencies
func (lib *Library) CmdOutput(c *exec.Cmd) ([]byte, error) {
	return lib.MockCmdOutput(c)
}

// CmdRun implements shellx.Dependencies
func (lib *Library) CmdRun(c *exec.Cmd) error {
	return lib.MockCmdRun(c)
}

// LookPath implements shellx.Dependencies
func (lib *Library) LookPath(file string) (string, error) {
	return lib.MockLookPath(file)
}

// MustArgv returns the [exec.Cmd]'s Argv or panics.
func MustArgv(c *exec.Cmd) []string {
	runtimex.PanicIfFalse(len(c.Args) >= 1, "too few arguments")
	out := []string{c.Path}
	out = append(out, c.Args[1:]...)
	return out
}

// ExitError simulates a program exiting with a nonzero status.
type ExitError struct {
	Code int
}

// Error implements error.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Recorder is a [Library] that records the argv of each command it is
// asked to run and never spawns processes. LookPath returns its argument,
// so each recorded argv starts with the program name as given.
type Recorder struct {
	// Commands contains the argv of each command in order.
	Commands [][]string

	// Outputs maps the index of a command to its standard output.
	Outputs map[int][]byte

	// Errors maps the index of a command to the error it returns.
	Errors map[int]error
}

// Library returns the [*Library] backed by the recorder.
func (r *Recorder) Library() *Library {
	record := func(c *exec.Cmd) ([]byte, error) {
		idx := len(r.Commands)
		r.Commands = append(r.Commands, append([]string{}, c.Args...))
		return r.Outputs[idx], r.Errors[idx]
	}
	return &Library{
		MockCmdOutput: record,
		MockCmdRun: func(c *exec.Cmd) error {
			_, err := record(c)
			return err
		},
		MockLookPath: func(file string) (string, error) {
			return file, nil
		},
	}
}

// WithCustomLibrary executes the given function with a custom shellx.Library.
func WithCustomLibrary(library shellx.Dependencies, fn func()) {
	prev := shellx.Library
	defer func() {
		shellx.Library = prev
	}()
	shellx.Library = library
	fn()
}
