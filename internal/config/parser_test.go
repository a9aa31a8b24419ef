package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
)

func TestParseConfig(t *testing.T) {
	t.Run("with an empty config", func(t *testing.T) {
		c, err := ParseConfig([]byte(`{}`))
		if err != nil {
			t.Fatal(err)
		}
		expect := []string{"fenix", "firefox_ios", "focus_android", "focus_ios"}
		if diff := cmp.Diff(expect, c.AppNames()); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with a custom app and comments", func(t *testing.T) {
		c, err := ParseConfig([]byte(`{
			// a locally built fork
			"apps": {
				"my_browser": {
					"platform": "android",
					"activity_name": ".MainActivity",
					"channels": {"developer": "com.example.browser",},
				},
			},
		}`))
		if err != nil {
			t.Fatal(err)
		}
		if _, found := c.Apps["my_browser"]; !found {
			t.Fatal("expected the custom app")
		}
		if _, found := c.Apps["fenix"]; !found {
			t.Fatal("expected the built-in apps")
		}
	})

	t.Run("with an unknown platform", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"apps": {"x": {"platform": "symbian", "channels": {"a": "b"}}}}`))
		if err == nil || !strings.HasSuffix(err.Error(), "unknown platform 'symbian'") {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("with an android app without activity", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"apps": {"x": {"platform": "android", "channels": {"a": "b"}}}}`))
		if err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("with an app without channels", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"apps": {"x": {"platform": "ios"}}}`))
		if err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("with invalid JSON", func(t *testing.T) {
		if _, err := ParseConfig([]byte(`{"apps": `)); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nimbus-cli.json")
	if err := os.WriteFile(path, []byte(`{"_version": 1}`), 0600); err != nil {
		t.Fatal(err)
	}
	c, err := ReadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Path() != path || c.Version != 1 {
		t.Fatal("unexpected config", c.Path(), c.Version)
	}

	t.Run("with a missing file", func(t *testing.T) {
		if _, err := ReadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestLookup(t *testing.T) {
	c := Default()

	t.Run("for an android app", func(t *testing.T) {
		params, app, err := c.Lookup("fenix", "nightly", "emulator-5554")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(model.NimbusApp{AppName: "fenix", Channel: "nightly"}, params); diff != "" {
			t.Fatal(diff)
		}
		expect := &model.AndroidApp{
			PackageName:  "org.mozilla.fenix",
			ActivityName: "org.mozilla.fenix.HomeActivity",
			DeviceID:     "emulator-5554",
		}
		if diff := cmp.Diff(expect, app); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("for an ios app without device", func(t *testing.T) {
		_, app, err := c.Lookup("firefox_ios", "developer", "")
		if err != nil {
			t.Fatal(err)
		}
		expect := &model.IosApp{AppID: "org.mozilla.ios.Fennec", DeviceID: "booted"}
		if diff := cmp.Diff(expect, app); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("for an unknown app", func(t *testing.T) {
		if _, _, err := c.Lookup("netscape", "release", ""); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("for an unknown channel", func(t *testing.T) {
		if _, _, err := c.Lookup("focus_ios", "nightly", ""); err == nil {
			t.Fatal("expected an error")
		}
	})
}
