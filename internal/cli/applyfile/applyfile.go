package applyfile

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/nimbus-devtools/nimbus-cli/internal/cli/root"
)

func init() {
	cmd := root.Command("apply-file", "Launch the app with every recipe of a local list file")
	file := cmd.Arg("file", "The list file, shaped like {\"data\": [...]}").Required().ExistingFile()
	preserveDB := cmd.Flag("preserve-nimbus-db", "Keep the experiments database of the app").Bool()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sess, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize root context")
			return err
		}
		return root.Check(sess.ApplyList(context.Background(), root.ListSource(*file, false), *preserveDB))
	})
}
