package config

import (
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
	"github.com/pkg/errors"
)

// DefaultIOSDevice targets the simulator that is currently booted.
const DefaultIOSDevice = "booted"

var builtinApps = map[string]App{
	"fenix": {
		Platform:     "android",
		ActivityName: "org.mozilla.fenix.HomeActivity",
		Channels: map[string]string{
			"developer": "org.mozilla.fenix.debug",
			"nightly":   "org.mozilla.fenix",
			"beta":      "org.mozilla.firefox_beta",
			"release":   "org.mozilla.firefox",
		},
	},
	"focus_android": {
		Platform:     "android",
		ActivityName: "org.mozilla.focus.activity.MainActivity",
		Channels: map[string]string{
			"developer": "org.mozilla.focus.debug",
			"nightly":   "org.mozilla.focus.nightly",
			"beta":      "org.mozilla.focus.beta",
			"release":   "org.mozilla.focus",
		},
	},
	"firefox_ios": {
		Platform: "ios",
		Channels: map[string]string{
			"developer": "org.mozilla.ios.Fennec",
			"beta":      "org.mozilla.ios.FirefoxBeta",
			"release":   "org.mozilla.ios.Firefox",
		},
	},
	"focus_ios": {
		Platform: "ios",
		Channels: map[string]string{
			"developer": "org.mozilla.ios.Focus",
			"release":   "org.mozilla.ios.Focus",
		},
	},
}

// Default returns the config containing only the built-in apps.
func Default() *Config {
	c := &Config{}
	_ = c.Default()
	return c
}

// Lookup returns both views of the named app on the given channel: the
// identity recipes use, and the handle for launching it. deviceID is
// optional; iOS apps default to the booted simulator.
func (c *Config) Lookup(appName, channel, deviceID string) (model.NimbusApp, model.LaunchableApp, error) {
	app, found := c.Apps[appName]
	if !found {
		return model.NimbusApp{}, nil, errors.Errorf("unknown app '%s' (known apps: %v)", appName, c.AppNames())
	}
	id, found := app.Channels[channel]
	if !found {
		return model.NimbusApp{}, nil, errors.Errorf("app '%s' has no channel '%s'", appName, channel)
	}
	params := model.NimbusApp{AppName: appName, Channel: channel}
	switch app.Platform {
	case "android":
		return params, &model.AndroidApp{
			PackageName:  id,
			ActivityName: app.ActivityName,
			DeviceID:     deviceID,
		}, nil
	default:
		if deviceID == "" {
			deviceID = DefaultIOSDevice
		}
		return params, &model.IosApp{AppID: id, DeviceID: deviceID}, nil
	}
}
