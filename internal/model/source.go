package model

//
// Experiment sources
//

const (
	// CollectionPreview is the remote settings collection containing
	// recipes in preview.
	CollectionPreview = "nimbus-preview"

	// CollectionMobileExperiments is the remote settings collection
	// containing live mobile recipes.
	CollectionMobileExperiments = "nimbus-mobile-experiments"
)

// ExperimentListSource is where a list of recipes comes from. The
// concrete type is either [*RemoteSettingsList] or [*FileList].
type ExperimentListSource interface {
	isExperimentListSource()
}

// RemoteSettingsList is a list fetched from a remote settings server.
type RemoteSettingsList struct {
	// Endpoint is the MANDATORY server base URL.
	Endpoint string

	// IsPreview selects the preview collection.
	IsPreview bool
}

var _ ExperimentListSource = &RemoteSettingsList{}

// CollectionName returns the name of the collection to fetch.
func (s *RemoteSettingsList) CollectionName() string {
	if s.IsPreview {
		return CollectionPreview
	}
	return CollectionMobileExperiments
}

func (*RemoteSettingsList) isExperimentListSource() {}

// FileList is a local JSON file shaped like `{"data": [...]}`.
type FileList struct {
	File string
}

var _ ExperimentListSource = &FileList{}

func (*FileList) isExperimentListSource() {}

// ExperimentSource is where a single recipe comes from. The concrete
// type is either [*ListExperiment] or [*FeatureFilesExperiment].
type ExperimentSource interface {
	isExperimentSource()
}

// ListExperiment is the recipe with the given slug inside a list.
type ListExperiment struct {
	Slug string
	List ExperimentListSource
}

var _ ExperimentSource = &ListExperiment{}

func (*ListExperiment) isExperimentSource() {}

// FeatureFilesExperiment is a recipe synthesized from local feature
// definition files, for testing a feature without a published recipe.
type FeatureFilesExperiment struct {
	App       NimbusApp
	FeatureID string
	Files     []string
}

var _ ExperimentSource = &FeatureFilesExperiment{}

func (*FeatureFilesExperiment) isExperimentSource() {}
