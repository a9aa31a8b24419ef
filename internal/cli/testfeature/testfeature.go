package testfeature

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/nimbus-devtools/nimbus-cli/internal/cli/root"
	"github.com/nimbus-devtools/nimbus-cli/internal/feature"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
	"github.com/nimbus-devtools/nimbus-cli/internal/nimbus"
)

func init() {
	cmd := root.Command("test-feature", "Enroll the app in an experiment built from local feature configuration files")
	featureID := cmd.Arg("feature-id", "The feature to configure").Required().String()
	files := cmd.Arg("files", "JSON or YAML files mapping feature ids to configurations").Required().ExistingFiles()
	preserveDB := cmd.Flag("preserve-nimbus-db", "Keep the experiments database of the app").Bool()
	resetApp := cmd.Flag("reset-app", "Clear the app's data before launching it").Bool()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sess, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize root context")
			return err
		}
		return root.Check(sess.Enroll(context.Background(), &nimbus.EnrollParams{
			Experiment: &model.FeatureFilesExperiment{
				App:       sess.App,
				FeatureID: *featureID,
				Files:     *files,
			},
			Branch:           feature.BranchSlug,
			PreserveNimbusDB: *preserveDB,
			ResetApp:         *resetApp,
		}))
	})
}
