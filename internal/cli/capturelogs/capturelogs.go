package capturelogs

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/nimbus-devtools/nimbus-cli/internal/cli/root"
)

func init() {
	cmd := root.Command("capture-logs", "Save the app's logs to a file")
	file := cmd.Arg("file", "The file to write").Required().String()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sess, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize root context")
			return err
		}
		return root.Check(sess.CaptureLogs(*file))
	})
}
