package fetchlist

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/nimbus-devtools/nimbus-cli/internal/cli/root"
)

func init() {
	cmd := root.Command("fetch-list", "Save the recipes targeting the app to a file")
	list := root.ListFlags(cmd)
	output := cmd.Flag("output", "The file to write").Short('o').Required().String()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sess, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize root context")
			return err
		}
		if err := root.Check(sess.FetchList(context.Background(), list(), *output)); err != nil {
			return err
		}
		log.Infof("Written %s", *output)
		return nil
	})
}
