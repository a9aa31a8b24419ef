// Package recipe prepares experiment and rollout recipes before they are
// sent to a device, so that enrollment happens deterministically.
package recipe

import (
	"strings"

	"github.com/nimbus-devtools/nimbus-cli/internal/errorsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/jsonx"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
	"github.com/pkg/errors"
)

// AlwaysTrue is the targeting expression matching every client.
const AlwaysTrue = "true"

// DefaultBucketTotal is the bucket total used when a recipe has none.
const DefaultBucketTotal = 10000

// Options controls which enrollment gates are left in place.
type Options struct {
	// PreserveTargeting keeps the recipe's targeting expression.
	PreserveTargeting bool

	// PreserveBucketing keeps the recipe's bucket configuration.
	PreserveBucketing bool
}

// PrepareExperiment returns a copy of record pinned to the given branch.
//
// The copy has exactly one branch, the one whose slug is branch. Unless
// the options say otherwise, the targeting matches every client and the
// bucketing includes every client.
func PrepareExperiment(record map[string]any, app model.NimbusApp, branch string, opts Options) (map[string]any, error) {
	exp, err := prepare(record, app, opts)
	if err != nil {
		return nil, err
	}
	branches, err := jsonx.GetArray(exp, "branches")
	if err != nil {
		return nil, err
	}
	var available []string
	for _, entry := range branches {
		candidate, err := jsonx.GetStr(entry, "slug")
		if err != nil {
			return nil, errors.Wrap(err, "branches")
		}
		if candidate == branch {
			exp["branches"] = []any{entry}
			return exp, nil
		}
		available = append(available, candidate)
	}
	slug, _ := jsonx.GetStr(exp, "slug")
	return nil, errors.Wrapf(errorsx.ErrBranchNotFound, "'%s' is not a branch of '%s' (branches: %s)",
		branch, slug, strings.Join(available, ", "))
}

// PrepareRollout is like [PrepareExperiment] but keeps every branch.
func PrepareRollout(record map[string]any, app model.NimbusApp, opts Options) (map[string]any, error) {
	return prepare(record, app, opts)
}

func prepare(record map[string]any, app model.NimbusApp, opts Options) (map[string]any, error) {
	slug, err := jsonx.GetStr(record, "slug")
	if err != nil {
		return nil, err
	}
	appName, err := jsonx.GetStr(record, "appName")
	if err != nil {
		return nil, err
	}
	if appName != app.AppName {
		return nil, errors.Wrapf(errorsx.ErrAppMismatch, "'%s' is for '%s', not '%s'", slug, appName, app.AppName)
	}
	exp := jsonx.DeepCopy(record).(map[string]any)
	if !opts.PreserveTargeting {
		exp["targeting"] = AlwaysTrue
	}
	if !opts.PreserveBucketing {
		if err := includeEveryone(exp, slug); err != nil {
			return nil, err
		}
	}
	return exp, nil
}

// includeEveryone rewrites the bucket configuration so that the bucket
// range covers the whole namespace.
func includeEveryone(exp map[string]any, slug string) error {
	if value, found := exp["bucketConfig"]; !found || value == nil {
		exp["bucketConfig"] = map[string]any{
			"randomizationUnit": "nimbus_id",
			"namespace":         slug,
			"start":             0,
			"count":             DefaultBucketTotal,
			"total":             DefaultBucketTotal,
		}
		return nil
	}
	bucket, err := jsonx.GetObject(exp, "bucketConfig")
	if err != nil {
		return err
	}
	total, found := bucket["total"]
	if !found || total == nil {
		total = DefaultBucketTotal
		bucket["total"] = total
	}
	bucket["start"] = 0
	bucket["count"] = total
	return nil
}
