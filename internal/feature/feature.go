// Package feature synthesizes experiment recipes from local feature
// definition files, so a feature configuration can be tested on a device
// before any recipe is published.
package feature

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nimbus-devtools/nimbus-cli/internal/errorsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/fsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/jsonx"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// BranchSlug is the slug of the only branch of a synthesized experiment.
const BranchSlug = "local"

// ExperimentSlug returns the slug of the experiment synthesized for featureID.
func ExperimentSlug(featureID string) string {
	return featureID + "-local"
}

// CreateExperiment reads files in order, merges the values they define for
// featureID, and wraps the result in a single-branch experiment recipe.
//
// Each file is a YAML or JSON document mapping feature ids to feature
// values. Top-level keys in later files override earlier ones.
func CreateExperiment(app model.NimbusApp, featureID string, files []string) (map[string]any, error) {
	if len(files) < 1 {
		return nil, errors.Wrap(errorsx.ErrInvalidSource, "no feature files given")
	}
	value := map[string]any{}
	for _, file := range files {
		fv, err := readFeatureValue(file, featureID)
		if err != nil {
			return nil, err
		}
		for key, entry := range fv {
			value[key] = entry
		}
	}
	return newExperiment(app, featureID, files, value), nil
}

func readFeatureValue(file, featureID string) (map[string]any, error) {
	data, err := fsx.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(errorsx.ErrInvalidSource, "cannot read %s: %s", file, err.Error())
	}
	doc, err := decode(file, data)
	if err != nil {
		return nil, errors.Wrapf(errorsx.ErrInvalidSource, "cannot parse %s: %s", file, err.Error())
	}
	features, ok := normalize(doc).(map[string]any)
	if !ok {
		return nil, errors.Wrapf(errorsx.ErrInvalidSource, "%s: expected a mapping of feature ids", file)
	}
	entry, found := features[featureID]
	if !found {
		return nil, errors.Wrapf(errorsx.ErrInvalidSource, "%s: no value for feature '%s'", file, featureID)
	}
	fv, ok := entry.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(errorsx.ErrInvalidSource, "%s: the value of '%s' is not an object", file, featureID)
	}
	return fv, nil
}

// decode parses YAML files with yaml.v3 and everything else as JSON.
func decode(file string, data []byte) (any, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	default:
		return jsonx.ParseLenient(data)
	}
}

// normalize converts what yaml.v3 produces into values encoding/json
// can marshal: mappings with non-string keys become map[string]any.
func normalize(v any) any {
	switch value := v.(type) {
	case map[string]any:
		for key, entry := range value {
			value[key] = normalize(entry)
		}
		return value
	case map[any]any:
		out := make(map[string]any, len(value))
		for key, entry := range value {
			out[fmt.Sprint(key)] = normalize(entry)
		}
		return out
	case []any:
		for idx, entry := range value {
			value[idx] = normalize(entry)
		}
		return value
	default:
		return value
	}
}

func newExperiment(app model.NimbusApp, featureID string, files []string, value map[string]any) map[string]any {
	slug := ExperimentSlug(featureID)
	feature := func() map[string]any {
		return map[string]any{
			"featureId": featureID,
			"enabled":   true,
			"value":     value,
		}
	}
	exp := map[string]any{
		"schemaVersion":         "1.12.0",
		"id":                    slug,
		"slug":                  slug,
		"appName":               app.AppName,
		"userFacingName":        fmt.Sprintf("Local test of %s", featureID),
		"userFacingDescription": fmt.Sprintf("Testing %s with %s", featureID, strings.Join(files, ", ")),
		"isEnrollmentPaused":    false,
		"isRollout":             false,
		"bucketConfig": map[string]any{
			"randomizationUnit": "nimbus_id",
			"namespace":         slug,
			"start":             0,
			"count":             10000,
			"total":             10000,
		},
		"featureIds": []any{featureID},
		"branches": []any{
			map[string]any{
				"slug":     BranchSlug,
				"ratio":    1,
				"feature":  feature(),
				"features": []any{feature()},
			},
		},
		"targeting":          "true",
		"startDate":          nil,
		"endDate":            nil,
		"proposedEnrollment": 7,
		"referenceBranch":    BranchSlug,
		"probeSets":          []any{},
		"outcomes":           []any{},
	}
	if app.Channel != "" {
		exp["channel"] = app.Channel
	}
	return exp
}
