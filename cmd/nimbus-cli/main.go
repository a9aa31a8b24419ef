package main

import (
	"os"

	"github.com/apex/log"
	"github.com/nimbus-devtools/nimbus-cli/internal/cli/app"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/applyfile"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/capturelogs"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/enroll"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/fetch"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/fetchlist"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/killapp"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/list"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/logstate"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/resetapp"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/taillogs"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/testfeature"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/unenroll"
	_ "github.com/nimbus-devtools/nimbus-cli/internal/cli/version"
)

func main() {
	if err := app.Run(); err != nil {
		log.Debugf("exiting: %s", err.Error())
		os.Exit(1)
	}
}
