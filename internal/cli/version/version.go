package version

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/nimbus-devtools/nimbus-cli/internal/cli/root"
	"github.com/nimbus-devtools/nimbus-cli/internal/version"
)

func init() {
	cmd := root.Command("version", "Show version.")
	cmd.Action(func(_ *kingpin.ParseContext) error {
		fmt.Println(version.Version)
		return nil
	})
}
