// Package config contains the catalogue of apps nimbus-cli knows how to
// launch, optionally extended by a user supplied config file.
package config

import (
	"encoding/json"
	"sort"

	"github.com/apex/log"
	"github.com/nimbus-devtools/nimbus-cli/internal/fsx"
	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
)

// ReadConfig reads the configuration from the path
func ReadConfig(path string) (*Config, error) {
	b, err := fsx.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c, err := ParseConfig(b)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	c.path = path
	return c, nil
}

// ParseConfig returns config from JSON bytes. Comments and trailing
// commas are allowed.
func ParseConfig(b []byte) (*Config, error) {
	var c Config

	std, err := hujson.Standardize(b)
	if err != nil {
		return nil, errors.Wrap(err, "parsing hujson")
	}
	if err := json.Unmarshal(std, &c); err != nil {
		return nil, errors.Wrap(err, "parsing json")
	}

	if err := c.Default(); err != nil {
		return nil, errors.Wrap(err, "defaulting")
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating")
	}

	return &c, nil
}

// Config for nimbus-cli
type Config struct {
	Comment string `json:"_"`
	Version int64  `json:"_version"`

	// Apps maps an app name, as used in recipes, to how to launch it.
	Apps map[string]App `json:"apps"`

	path string
}

// App describes how to launch an app on its platform.
type App struct {
	// Platform is either "android" or "ios".
	Platform string `json:"platform"`

	// ActivityName is the activity to start. Android only.
	ActivityName string `json:"activity_name,omitempty"`

	// Channels maps a channel name to the Android package name or to
	// the iOS bundle identifier.
	Channels map[string]string `json:"channels"`
}

// Path returns the file the config was read from, if any.
func (c *Config) Path() string {
	return c.path
}

// Default adds the built-in apps the config does not define.
func (c *Config) Default() error {
	if c.Apps == nil {
		c.Apps = make(map[string]App)
	}
	for name, app := range builtinApps {
		if _, found := c.Apps[name]; !found {
			c.Apps[name] = app
		} else {
			log.Debugf("config: overriding built-in app %s", name)
		}
	}
	return nil
}

// Validate makes sure every app can be launched.
func (c *Config) Validate() error {
	for _, name := range c.AppNames() {
		app := c.Apps[name]
		switch app.Platform {
		case "android":
			if app.ActivityName == "" {
				return errors.Errorf("app %s: missing activity_name", name)
			}
		case "ios":
		default:
			return errors.Errorf("app %s: unknown platform '%s'", name, app.Platform)
		}
		if len(app.Channels) < 1 {
			return errors.Errorf("app %s: no channels", name)
		}
	}
	return nil
}

// AppNames returns the sorted names of the configured apps.
func (c *Config) AppNames() []string {
	var names []string
	for name := range c.Apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
