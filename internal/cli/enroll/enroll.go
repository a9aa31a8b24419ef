package enroll

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/nimbus-devtools/nimbus-cli/internal/cli/root"
	"github.com/nimbus-devtools/nimbus-cli/internal/nimbus"
)

func init() {
	cmd := root.Command("enroll", "Enroll the app in one branch of an experiment, and in any number of rollouts")
	slug := cmd.Arg("experiment", "The slug of the experiment").Required().String()
	branch := cmd.Flag("branch", "The slug of the branch to enroll in").Short('b').Required().String()
	rollouts := cmd.Flag("rollouts", "The slugs of rollouts to enroll in as well").Strings()
	list := root.ListFlags(cmd)
	preserveTargeting := cmd.Flag("preserve-targeting", "Keep the targeting of the recipes").Bool()
	preserveBucketing := cmd.Flag("preserve-bucketing", "Keep the bucketing of the recipes").Bool()
	preserveDB := cmd.Flag("preserve-nimbus-db", "Keep the experiments database of the app").Bool()
	resetApp := cmd.Flag("reset-app", "Clear the app's data before launching it").Bool()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sess, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize root context")
			return err
		}
		src := list()
		return root.Check(sess.Enroll(context.Background(), &nimbus.EnrollParams{
			Experiment:        root.Experiments(src, *slug)[0],
			Branch:            *branch,
			Rollouts:          root.Experiments(src, *rollouts...),
			PreserveTargeting: *preserveTargeting,
			PreserveBucketing: *preserveBucketing,
			PreserveNimbusDB:  *preserveDB,
			ResetApp:          *resetApp,
		}))
	})
}
