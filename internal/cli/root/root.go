package root

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/nimbus-devtools/nimbus-cli/internal/config"
	"github.com/nimbus-devtools/nimbus-cli/internal/device"
	"github.com/nimbus-devtools/nimbus-cli/internal/log/handlers/cli"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
	"github.com/nimbus-devtools/nimbus-cli/internal/nimbus"
	"github.com/nimbus-devtools/nimbus-cli/internal/source"
	"github.com/nimbus-devtools/nimbus-cli/internal/version"
	"github.com/pkg/errors"
)

// DefaultRemoteSettingsURL is the production remote settings server.
const DefaultRemoteSettingsURL = "https://firefox.settings.services.mozilla.com"

// Cmd is the root command
var Cmd = kingpin.New("nimbus-cli", "Enroll Nimbus apps in experiments and rollouts on emulators and simulators.")

// Command is syntax sugar for defining sub-commands
var Command = Cmd.Command

// Init should be called by all subcommands that need a nimbus.Session
var Init func() (*nimbus.Session, error)

// ErrCommandFailed means that the device command exited with failure.
var ErrCommandFailed = errors.New("the device command failed")

var remoteSettingsURL = DefaultRemoteSettingsURL

func init() {
	configPath := Cmd.Flag("config", "Set a custom config file path").Short('c').Envar("NIMBUS_CLI_CONFIG").String()
	verbose := Cmd.Flag("verbose", "Enable verbose log output.").Short('v').Bool()
	appName := Cmd.Flag("app", "The app name as used in recipes, e.g., fenix").Short('a').Envar("NIMBUS_APP").String()
	channel := Cmd.Flag("channel", "The channel of the app").Short('n').Default("developer").String()
	deviceID := Cmd.Flag("device-id", "The Android device or the iOS simulator to use").Short('d').Envar("NIMBUS_DEVICE_ID").String()
	adbPath := Cmd.Flag("adb-path", "The adb command line").Envar("ADB_PATH").Default(device.DefaultADB()).String()
	xcrunPath := Cmd.Flag("xcrun-path", "The xcrun command line").Envar("XCRUN_PATH").Default(device.DefaultXcrun()).String()
	Cmd.Flag("remote-settings-url", "The remote settings server").Envar("NIMBUS_URL").Default(DefaultRemoteSettingsURL).StringVar(&remoteSettingsURL)

	Cmd.PreAction(func(ctx *kingpin.ParseContext) error {
		log.SetHandler(cli.Default)
		if *verbose {
			log.SetLevel(log.DebugLevel)
			log.Debugf("nimbus-cli version %s", version.Version)
		}

		Init = func() (*nimbus.Session, error) {
			c, err := readConfig(*configPath)
			if err != nil {
				return nil, err
			}
			if *appName == "" {
				return nil, errors.Errorf("missing --app (known apps: %v)", c.AppNames())
			}
			app, launchable, err := c.Lookup(*appName, *channel, *deviceID)
			if err != nil {
				return nil, err
			}
			log.Debugf("using %s on channel %s", app.AppName, app.Channel)
			tools := device.Tools{ADB: *adbPath, Xcrun: *xcrunPath}
			return nimbus.NewSession(
				app,
				device.New(launchable, tools, log.Log),
				source.NewResolver(log.Log, version.UserAgent),
				log.Log,
			), nil
		}

		return nil
	})
}

func readConfig(path string) (*config.Config, error) {
	if path == "" {
		log.Debug("Using the built-in apps")
		return config.Default(), nil
	}
	c, err := config.ReadConfig(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("Using the apps in %s", c.Path())
	return c, nil
}

// ListSource returns the list of recipes to use: the given file when
// set, otherwise the preview or the production collection.
func ListSource(file string, preview bool) model.ExperimentListSource {
	if file != "" {
		return &model.FileList{File: file}
	}
	return &model.RemoteSettingsList{Endpoint: remoteSettingsURL, IsPreview: preview}
}

// ListFlags adds the --file and --preview flags selecting the list of
// recipes to cmd and returns a function producing the selected list.
func ListFlags(cmd *kingpin.CmdClause) func() model.ExperimentListSource {
	file := cmd.Flag("file", "Read the recipes from a local list file").ExistingFile()
	preview := cmd.Flag("preview", "Use the preview collection").Bool()
	return func() model.ExperimentListSource {
		return ListSource(*file, *preview)
	}
}

// Experiments returns the sources for the given slugs in list.
func Experiments(list model.ExperimentListSource, slugs ...string) []model.ExperimentSource {
	var out []model.ExperimentSource
	for _, slug := range slugs {
		out = append(out, &model.ListExperiment{Slug: slug, List: list})
	}
	return out
}

// Check maps the result of a device operation to an error.
func Check(ok bool, err error) error {
	if err != nil {
		log.WithError(err).Error("nimbus-cli failed")
		return err
	}
	if !ok {
		log.WithError(ErrCommandFailed).Error("nimbus-cli failed")
		return ErrCommandFailed
	}
	return nil
}
