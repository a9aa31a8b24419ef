// Package shellx runs the external programs nimbus-cli drives.
//
// All process creation goes through [Library], which tests replace with
// a fake to record the command lines without spawning anything.
package shellx

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/nimbus-devtools/nimbus-cli/internal/fsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
	"golang.org/x/sys/execabs"
)

// Dependencies is the library on which this package depends.
type Dependencies interface {
	// CmdOutput is equivalent to calling c.Output.
	CmdOutput(c *execabs.Cmd) ([]byte, error)

	// CmdRun is equivalent to calling c.Run.
	CmdRun(c *execabs.Cmd) error

	// LookPath is equivalent to calling execabs.LookPath.
	LookPath(file string) (string, error)
}

// Library contains the default dependencies.
var Library Dependencies = &StdlibDependencies{}

// StdlibDependencies contains the stdlib implementation of the [Dependencies].
type StdlibDependencies struct{}

// CmdOutput implements [Dependencies].
func (*StdlibDependencies) CmdOutput(c *execabs.Cmd) ([]byte, error) {
	return c.Output()
}

// CmdRun implements [Dependencies].
func (*StdlibDependencies) CmdRun(c *execabs.Cmd) error {
	return c.Run()
}

// LookPath implements [Dependencies].
func (*StdlibDependencies) LookPath(file string) (string, error) {
	return execabs.LookPath(file)
}

// Argv contains the complete argv.
type Argv struct {
	// P is the MANDATORY program to execute.
	P string

	// V contains the OPTIONAL arguments.
	V []string
}

// NewArgv creates a new [Argv] from the given command and arguments.
func NewArgv(command string, args ...string) (*Argv, error) {
	fullpath, err := Library.LookPath(command) // allows mocking
	if err != nil {
		return nil, err
	}
	argv := &Argv{
		P: fullpath,
		V: args,
	}
	return argv, nil
}

// ParseCommandLine creates an [Argv] from a command line such as the
// value of the ADB_PATH environment variable, which may carry extra
// arguments (e.g., "adb -H 10.0.0.1"). The args are appended.
func ParseCommandLine(cmdline string, args ...string) (*Argv, error) {
	words, err := shlex.Split(cmdline)
	if err != nil {
		return nil, err
	}
	if len(words) < 1 {
		return nil, ErrNoCommandToExecute
	}
	return NewArgv(words[0], append(words[1:], args...)...)
}

// Append appends arguments to the command line.
func (a *Argv) Append(args ...string) {
	a.V = append(a.V, args...)
}

// String returns the quoted command line.
func (a *Argv) String() string {
	return quotedCommandLine(a.P, a.V...)
}

const (
	// FlagShowStdoutStderr enables connecting the child's stdout and stderr
	// to the current program's stdout and stderr.
	FlagShowStdoutStderr = 1 << iota
)

// Config contains config for executing programs.
type Config struct {
	// Logger is the OPTIONAL logger to use.
	Logger model.Logger

	// Flags contains OPTIONAL binary flags to configure the program.
	Flags int64
}

func cmd(config *Config, argv *Argv) *execabs.Cmd {
	cmd := execabs.Command(argv.P, argv.V...)
	if config.Logger != nil {
		config.Logger.Debugf("+ %s", argv.String())
	}
	return cmd
}

// OutputEx runs the program and returns its standard output.
func OutputEx(config *Config, argv *Argv) ([]byte, error) {
	cmd := cmd(config, argv)
	if (config.Flags & FlagShowStdoutStderr) != 0 {
		// note: cmd.Output wants the stdout to be nil
		cmd.Stderr = os.Stderr
	}
	return Library.CmdOutput(cmd) // allows mocking
}

// RunEx runs the program and waits for it to terminate.
func RunEx(config *Config, argv *Argv) error {
	cmd := cmd(config, argv)
	if config.Flags&FlagShowStdoutStderr != 0 {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return Library.CmdRun(cmd) // allows mocking
}

// Run is like [RunEx] with the child attached to our stdout and stderr.
func Run(logger model.Logger, argv *Argv) error {
	return RunEx(&Config{Logger: logger, Flags: FlagShowStdoutStderr}, argv)
}

// Output is like [OutputEx] with the child's stderr attached to ours.
func Output(logger model.Logger, argv *Argv) ([]byte, error) {
	return OutputEx(&Config{Logger: logger, Flags: FlagShowStdoutStderr}, argv)
}

// exitCoder is implemented by *execabs.ExitError.
type exitCoder interface {
	ExitCode() int
}

// Succeeded maps the error returned by [RunEx] to whether the program
// exited successfully. A program that ran and exited with a nonzero
// status yields false and a nil error; a program that could not be
// started yields the spawn error.
func Succeeded(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	var ec exitCoder
	if errors.As(err, &ec) {
		return false, nil
	}
	return false, err
}

// ErrNoCommandToExecute means that the command line is empty.
var ErrNoCommandToExecute = errors.New("shellx: no command to execute")

func quotedCommandLine(command string, args ...string) string {
	v := []string{}
	v = append(v, maybeQuoteArg(command))
	for _, a := range args {
		v = append(v, maybeQuoteArg(a))
	}
	return strings.Join(v, " ")
}

func maybeQuoteArg(a string) string {
	if strings.Contains(a, "\"") {
		a = strings.ReplaceAll(a, "\"", "\\\"")
	}
	if strings.Contains(a, " ") {
		a = "\"" + a + "\""
	}
	return a
}

// CopyFile copies [source] to [dest].
func CopyFile(source, dest string, perms fs.FileMode) error {
	sourcefp, err := fsx.OpenFile(source)
	if err != nil {
		return err
	}
	defer sourcefp.Close()
	destfp, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perms)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destfp, sourcefp); err != nil {
		destfp.Close()
		return err
	}
	return destfp.Close()
}
