// Package device drives apps on Android emulators (through adb) and iOS
// simulators (through xcrun simctl).
//
// Each operation builds one command line, runs it through package shellx
// and waits for it to terminate. Nothing is kept between operations.
package device

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/nimbus-devtools/nimbus-cli/internal/model"
	"github.com/nimbus-devtools/nimbus-cli/internal/runtimex"
	"github.com/nimbus-devtools/nimbus-cli/internal/shellx"
)

// hostOS is the operating system we're running on.
var hostOS = runtime.GOOS

// Tools contains the command lines of the device control programs. Each
// may include extra arguments, e.g., "adb -H 10.0.0.1".
type Tools struct {
	// ADB is the Android debug bridge.
	ADB string

	// Xcrun is the xcrun program providing simctl.
	Xcrun string
}

// DefaultADB returns the value of ADB_PATH or the platform default.
func DefaultADB() string {
	if value := os.Getenv("ADB_PATH"); value != "" {
		return value
	}
	if hostOS == "windows" {
		return "adb.exe"
	}
	return "adb"
}

// DefaultXcrun returns the value of XCRUN_PATH or "xcrun".
func DefaultXcrun() string {
	if value := os.Getenv("XCRUN_PATH"); value != "" {
		return value
	}
	return "xcrun"
}

// DefaultTools returns the [Tools] configured by the environment.
func DefaultTools() Tools {
	return Tools{ADB: DefaultADB(), Xcrun: DefaultXcrun()}
}

// Adapter runs lifecycle operations for a [model.LaunchableApp].
type Adapter struct {
	// App is the MANDATORY app.
	App model.LaunchableApp

	// Tools contains the MANDATORY tools command lines.
	Tools Tools

	// Logger is the OPTIONAL logger.
	Logger model.Logger
}

// New creates a new [*Adapter].
func New(app model.LaunchableApp, tools Tools, logger model.Logger) *Adapter {
	return &Adapter{App: app, Tools: tools, Logger: logger}
}

func (a *Adapter) logger() model.Logger {
	return model.ValidLoggerOrDefault(a.Logger)
}

// Command returns the argv invoking the platform's device control
// program with the given arguments. For Android this is adb, bound to
// the device id when there is one; for iOS this is xcrun simctl.
//
// Command panics when asked for iOS tooling on a host other than macOS,
// because nothing we could do afterwards would work.
func (a *Adapter) Command(args ...string) (*shellx.Argv, error) {
	switch app := a.App.(type) {
	case *model.AndroidApp:
		argv, err := shellx.ParseCommandLine(a.Tools.ADB)
		if err != nil {
			return nil, err
		}
		if app.DeviceID != "" {
			argv.Append("-s", app.DeviceID)
		}
		argv.Append(args...)
		return argv, nil
	case *model.IosApp:
		runtimex.PanicIfFalse(hostOS == "darwin", "Cannot run commands for iOS on anything except macOS")
		return shellx.ParseCommandLine(a.Tools.Xcrun, append([]string{"simctl"}, args...)...)
	default:
		unhandled(a.App)
		return nil, nil
	}
}

// Start launches the app. The app reads three optional flags: resetDB
// wipes its experiments database, payload (when not nil) is the
// `{"data": [...]}` document of recipes to apply, and logState makes the
// app log its experiments state once started.
//
// The return value tells whether the launch command exited successfully.
func (a *Adapter) Start(resetDB bool, payload any, logState bool) (bool, error) {
	var experiments string
	if payload != nil {
		var err error
		if experiments, err = EncodePayload(payload); err != nil {
			return false, err
		}
	}
	var (
		argv *shellx.Argv
		err  error
	)
	switch app := a.App.(type) {
	case *model.AndroidApp:
		argv, err = a.androidStart(app, resetDB, experiments, logState)
	case *model.IosApp:
		argv, err = a.iosStart(app, resetDB, experiments, logState)
	default:
		unhandled(a.App)
	}
	if err != nil {
		return false, err
	}
	return a.run(argv)
}

// Kill stops the app. On iOS stopping an app that is not running fails,
// which we ignore: the app is stopped either way.
func (a *Adapter) Kill() (bool, error) {
	switch app := a.App.(type) {
	case *model.AndroidApp:
		return a.androidShell("am force-stop " + app.PackageName)
	case *model.IosApp:
		bestEffort(a.logger(), "terminate", func() error {
			argv, err := a.Command("terminate", app.DeviceID, app.AppID)
			if err != nil {
				return err
			}
			_, err = shellx.OutputEx(&shellx.Config{Logger: a.logger()}, argv)
			return err
		})
		return true, nil
	default:
		unhandled(a.App)
		return false, nil
	}
}

// Reset clears the app's data.
func (a *Adapter) Reset() (bool, error) {
	switch app := a.App.(type) {
	case *model.AndroidApp:
		return a.androidShell("pm clear " + app.PackageName)
	case *model.IosApp:
		return a.iosReset(app)
	default:
		unhandled(a.App)
		return false, nil
	}
}

// CaptureLogs writes the app's logs to file.
func (a *Adapter) CaptureLogs(file string) (bool, error) {
	switch app := a.App.(type) {
	case *model.AndroidApp:
		return a.androidCaptureLogs(file)
	case *model.IosApp:
		return a.iosCaptureLogs(app, file)
	default:
		unhandled(a.App)
		return false, nil
	}
}

// TailLogs follows the app's logs in the terminal until interrupted.
func (a *Adapter) TailLogs() (bool, error) {
	switch app := a.App.(type) {
	case *model.AndroidApp:
		return a.androidTailLogs()
	case *model.IosApp:
		return a.iosTailLogs(app)
	default:
		unhandled(a.App)
		return false, nil
	}
}

// run runs argv attached to the terminal.
func (a *Adapter) run(argv *shellx.Argv) (bool, error) {
	return shellx.Succeeded(shellx.Run(a.logger(), argv))
}

// EncodePayload serializes payload for embedding in a launch command.
// Single quotes become &apos; so that the result can be wrapped in
// single quotes on a shell command line.
func EncodePayload(payload any) (string, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return "", err
	}
	return strings.ReplaceAll(strings.TrimSuffix(buf.String(), "\n"), "'", "&apos;"), nil
}

// bestEffort runs fn and logs, rather than returns, its error. Use it
// for idempotent cleanup steps whose failure leaves nothing to fix.
func bestEffort(logger model.Logger, what string, fn func() error) {
	if err := fn(); err != nil {
		logger.Debugf("%s: %s (ignored)", what, err.Error())
	}
}

func unhandled(app model.LaunchableApp) {
	runtimex.PanicIfFalse(false, fmt.Sprintf("device: unhandled app type %T", app))
}
