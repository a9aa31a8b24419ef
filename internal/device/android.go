package device

import (
	"fmt"
	"strings"

	"github.com/nimbus-devtools/nimbus-cli/internal/fsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
	"github.com/nimbus-devtools/nimbus-cli/internal/output"
	"github.com/nimbus-devtools/nimbus-cli/internal/shellx"
)

// logcatArgs reads the main log buffer only.
var logcatArgs = []string{"logcat", "-b", "main"}

// androidShell runs a command with `adb shell`.
func (a *Adapter) androidShell(command string) (bool, error) {
	argv, err := a.Command("shell", command)
	if err != nil {
		return false, err
	}
	output.Prompt(fmt.Sprintf("adb shell \"%s\"", command))
	return a.run(argv)
}

// AndroidStartCommand returns the `am start` command line launching app
// with the given intent extras.
func AndroidStartCommand(app *model.AndroidApp, resetDB bool, experiments string, logState bool) string {
	args := []string{
		"am start -n " + app.PackageName + "/" + app.ActivityName,
		"-a android.intent.action.MAIN",
		"-c android.intent.category.LAUNCHER",
		"--esn nimbus-cli",
		"--ei version 1",
	}
	if resetDB {
		args = append(args, "--ez reset-db true")
	}
	if experiments != "" {
		args = append(args, fmt.Sprintf("--es experiments '%s'", experiments))
	}
	if logState {
		args = append(args, "--ez log-state true")
	}
	return strings.Join(args, " ")
}

func (a *Adapter) androidStart(app *model.AndroidApp, resetDB bool, experiments string, logState bool) (*shellx.Argv, error) {
	sh := AndroidStartCommand(app, resetDB, experiments, logState)
	argv, err := a.Command("shell", sh)
	if err != nil {
		return nil, err
	}
	output.Prompt(fmt.Sprintf("adb shell \"%s\"", sh))
	return argv, nil
}

func (a *Adapter) androidCaptureLogs(file string) (bool, error) {
	args := append(append([]string{}, logcatArgs...), "-d")
	argv, err := a.Command(args...)
	if err != nil {
		return false, err
	}
	output.Prompt(fmt.Sprintf("adb %s > %s", strings.Join(args, " "), file))
	data, err := shellx.Output(a.logger(), argv)
	ok, err := shellx.Succeeded(err)
	if err != nil {
		return false, err
	}
	if err := fsx.WriteFile(file, data); err != nil {
		return false, err
	}
	return ok, nil
}

func (a *Adapter) androidTailLogs() (bool, error) {
	args := append(append([]string{}, logcatArgs...), "-v", "color")
	argv, err := a.Command(args...)
	if err != nil {
		return false, err
	}
	output.Prompt("adb " + strings.Join(args, " "))
	return a.run(argv)
}
