package device

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/nimbus-devtools/nimbus-cli/internal/errorsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/fsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
	"github.com/nimbus-devtools/nimbus-cli/internal/output"
	"github.com/nimbus-devtools/nimbus-cli/internal/shellx"
	"github.com/pkg/errors"
)

// IosStartArgs returns the simctl arguments launching app with the
// given command line flags.
func IosStartArgs(app *model.IosApp, resetDB bool, experiments string, logState bool) []string {
	args := []string{"launch", app.DeviceID, app.AppID, "--nimbus-cli", "--version", "1"}
	if resetDB {
		args = append(args, "--reset-db")
	}
	if experiments != "" {
		args = append(args, "--experiments", experiments)
	}
	if logState {
		args = append(args, "--log-state")
	}
	return args
}

func (a *Adapter) iosStart(app *model.IosApp, resetDB bool, experiments string, logState bool) (*shellx.Argv, error) {
	args := IosStartArgs(app, resetDB, experiments, logState)
	argv, err := a.Command(args...)
	if err != nil {
		return nil, err
	}
	shown := append([]string{}, args...)
	for idx, arg := range shown {
		if arg == experiments && idx > 0 && shown[idx-1] == "--experiments" {
			shown[idx] = "'" + arg + "'"
		}
	}
	output.Prompt("xcrun simctl " + strings.Join(shown, " "))
	return argv, nil
}

// iosContainer returns the path of the given app container ("data",
// "groups", ...). The result is empty when simctl fails, which happens
// when the app has not been installed.
func (a *Adapter) iosContainer(app *model.IosApp, container string) (string, error) {
	argv, err := a.Command("get_app_container", app.DeviceID, app.AppID, container)
	if err != nil {
		return "", err
	}
	data, err := shellx.OutputEx(&shellx.Config{Logger: a.logger()}, argv)
	if ok, err := shellx.Succeeded(err); err != nil {
		return "", err
	} else if !ok {
		a.logger().Debugf("no %s container for %s", container, app.AppID)
		return "", nil
	}
	return strings.TrimSpace(string(data)), nil
}

// iosReset resets the privacy settings, then empties the data container
// and every group container.
func (a *Adapter) iosReset(app *model.IosApp) (bool, error) {
	argv, err := a.Command("privacy", app.DeviceID, "reset", "all", app.AppID)
	if err != nil {
		return false, err
	}
	output.Prompt(fmt.Sprintf("xcrun simctl privacy %s reset all %s", app.DeviceID, app.AppID))
	if _, err := shellx.Succeeded(shellx.Run(a.logger(), argv)); err != nil {
		return false, err
	}
	data, err := a.iosContainer(app, "data")
	if err != nil {
		return false, err
	}
	groups, err := a.iosContainer(app, "groups")
	if err != nil {
		return false, err
	}
	output.Comment("Resetting the app")
	dirs := []string{data}
	dirs = append(dirs, ParseGroupContainers(groups)...)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		output.Prompt(fmt.Sprintf("rm -Rf %s/* 2>/dev/null", dir))
		bestEffort(a.logger(), "reset "+dir, func() error {
			return fsx.ResetDir(dir)
		})
	}
	return true, nil
}

// ParseGroupContainers parses the output of `simctl get_app_container
// ... groups`, whose lines are "group-name<TAB>path", into the paths.
func ParseGroupContainers(s string) []string {
	var dirs []string
	for _, line := range strings.Split(s, "\n") {
		words := strings.SplitN(strings.TrimRight(line, "\r"), "\t", 2)
		if len(words) == 2 && words[1] != "" {
			dirs = append(dirs, words[1])
		}
	}
	return dirs
}

func iosLogFileCommand(app *model.IosApp) string {
	return fmt.Sprintf("find $(xcrun simctl get_app_container %s %s data) -name \\*.log", app.DeviceID, app.AppID)
}

// iosLogFile returns the most recently modified log file written by the app.
func (a *Adapter) iosLogFile(app *model.IosApp) (string, error) {
	data, err := a.iosContainer(app, "data")
	if err != nil {
		return "", err
	}
	if data == "" {
		return "", errors.Wrapf(errorsx.ErrLogsUnavailable, "%s", app.AppID)
	}
	return NewestLogFile(data)
}

// NewestLogFile returns the most recently modified *.log file below dir.
func NewestLogFile(dir string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.log")
	if err != nil {
		return "", err
	}
	var (
		newest string
		info   fs.FileInfo
	)
	for _, match := range matches {
		path := filepath.Join(dir, filepath.FromSlash(match))
		candidate, err := os.Stat(path)
		if err != nil || candidate.IsDir() {
			continue
		}
		if info == nil || candidate.ModTime().After(info.ModTime()) {
			newest, info = path, candidate
		}
	}
	if newest == "" {
		return "", errors.Wrapf(errorsx.ErrLogsUnavailable, "no log file in %s", dir)
	}
	return newest, nil
}

func (a *Adapter) iosCaptureLogs(app *model.IosApp, file string) (bool, error) {
	log, err := a.iosLogFile(app)
	if err != nil {
		return false, err
	}
	output.Prompt(fmt.Sprintf("%s | xargs -J %%log_file%% cp %%log_file%% %s", iosLogFileCommand(app), file))
	if err := shellx.CopyFile(log, file, 0644); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Adapter) iosTailLogs(app *model.IosApp) (bool, error) {
	output.Prompt(iosLogFileCommand(app) + " | xargs tail -f")
	log, err := a.iosLogFile(app)
	if err != nil {
		return false, err
	}
	argv, err := shellx.NewArgv("tail", "-f", log)
	if err != nil {
		return false, err
	}
	return a.run(argv)
}
