package fetch

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/nimbus-devtools/nimbus-cli/internal/cli/root"
)

func init() {
	cmd := root.Command("fetch", "Save the named recipes to a file")
	slugs := cmd.Arg("slugs", "The slugs of the experiments and rollouts").Required().Strings()
	list := root.ListFlags(cmd)
	output := cmd.Flag("output", "The file to write").Short('o').Required().String()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sess, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize root context")
			return err
		}
		sources := root.Experiments(list(), *slugs...)
		if err := root.Check(sess.FetchRecipes(context.Background(), sources, *output)); err != nil {
			return err
		}
		log.Infof("Written %s", *output)
		return nil
	})
}
