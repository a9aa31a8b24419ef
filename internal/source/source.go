// Package source resolves experiment and rollout references into recipes.
//
// A list of recipes comes either from a remote settings server or from
// a local file shaped like `{"data": [...]}`. A single recipe is either
// looked up by slug inside such a list or synthesized from local feature
// definition files (see package feature).
package source

import (
	"context"
	"net/http"
	"strings"

	"github.com/nimbus-devtools/nimbus-cli/internal/errorsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/feature"
	"github.com/nimbus-devtools/nimbus-cli/internal/fsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/httpclientx"
	"github.com/nimbus-devtools/nimbus-cli/internal/jsonx"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
	"github.com/nimbus-devtools/nimbus-cli/internal/runtimex"
	"github.com/pkg/errors"
)

// Resolver resolves experiment sources.
type Resolver struct {
	// Client is the OPTIONAL HTTP client. When nil we use http.DefaultClient.
	Client httpclientx.HTTPClient

	// Logger is the OPTIONAL logger.
	Logger model.Logger

	// UserAgent is the OPTIONAL User-Agent header.
	UserAgent string
}

// NewResolver creates a [*Resolver] using the default HTTP client.
func NewResolver(logger model.Logger, userAgent string) *Resolver {
	return &Resolver{
		Client:    http.DefaultClient,
		Logger:    logger,
		UserAgent: userAgent,
	}
}

// ResolveList returns the list document described by src verbatim. Use
// [jsonx.DataList] to access the recipes.
func (r *Resolver) ResolveList(ctx context.Context, src model.ExperimentListSource) (any, error) {
	switch src := src.(type) {
	case *model.RemoteSettingsList:
		return r.fetchRemote(ctx, src)
	case *model.FileList:
		return ReadListFile(src.File)
	default:
		runtimex.PanicIfFalse(false, "source: unhandled ExperimentListSource")
		return nil, nil
	}
}

// Resolve returns the recipe described by src. The recipe always carries
// the slug, appName, branches and featureIds fields.
func (r *Resolver) Resolve(ctx context.Context, src model.ExperimentSource) (map[string]any, error) {
	var (
		record map[string]any
		err    error
	)
	switch src := src.(type) {
	case *model.ListExperiment:
		var list any
		if list, err = r.ResolveList(ctx, src.List); err != nil {
			return nil, err
		}
		record, err = FindExperiment(list, src.Slug)
	case *model.FeatureFilesExperiment:
		record, err = feature.CreateExperiment(src.App, src.FeatureID, src.Files)
	default:
		runtimex.PanicIfFalse(false, "source: unhandled ExperimentSource")
	}
	if err != nil {
		return nil, err
	}
	if err := ValidateRecord(record); err != nil {
		return nil, err
	}
	return record, nil
}

// RecordsURL returns the URL of the records of a remote settings collection.
func RecordsURL(endpoint, collection string) string {
	return strings.TrimSuffix(endpoint, "/") + "/v1/buckets/main/collections/" + collection + "/records"
}

func (r *Resolver) fetchRemote(ctx context.Context, src *model.RemoteSettingsList) (any, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	config := &httpclientx.Config{
		Client:    client,
		Logger:    model.ValidLoggerOrDefault(r.Logger),
		UserAgent: r.UserAgent,
	}
	URL := RecordsURL(src.Endpoint, src.CollectionName())
	body, err := httpclientx.GetRaw(ctx, config, URL)
	if err != nil {
		return nil, errors.Wrapf(errorsx.ErrSourceUnavailable, "GET %s: %s", URL, err.Error())
	}
	value, err := jsonx.Parse(body)
	if err != nil {
		return nil, errors.Wrapf(errorsx.ErrInvalidSource, "GET %s: %s", URL, err.Error())
	}
	return value, nil
}

// ReadListFile reads a local list file. The file is parsed leniently:
// comments and trailing commas are accepted, which is wider than strict
// JSON. Anything else that is not valid JSON fails with ErrInvalidSource.
func ReadListFile(file string) (any, error) {
	data, err := fsx.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(errorsx.ErrInvalidSource, "cannot read %s: %s", file, err.Error())
	}
	value, err := jsonx.ParseLenient(data)
	if err != nil {
		return nil, errors.Wrapf(errorsx.ErrInvalidSource, "cannot parse %s: %s", file, err.Error())
	}
	return value, nil
}

// FindExperiment returns the first recipe in the list whose slug is slug.
func FindExperiment(list any, slug string) (map[string]any, error) {
	data, err := jsonx.DataList(list)
	if err != nil {
		return nil, err
	}
	for _, entry := range data {
		candidate, err := jsonx.GetStr(entry, "slug")
		if err != nil {
			return nil, err
		}
		if candidate == slug {
			return jsonx.AsObject(entry)
		}
	}
	return nil, errors.Wrapf(errorsx.ErrExperimentNotFound, "'%s'", slug)
}

// ValidateRecord checks that record carries the fields nimbus-cli reads.
func ValidateRecord(record any) error {
	if _, err := jsonx.GetStr(record, "slug"); err != nil {
		return err
	}
	if _, err := jsonx.GetStr(record, "appName"); err != nil {
		return err
	}
	branches, err := jsonx.GetArray(record, "branches")
	if err != nil {
		return err
	}
	for _, branch := range branches {
		if _, err := jsonx.GetStr(branch, "slug"); err != nil {
			return errors.Wrap(err, "branches")
		}
	}
	_, err = jsonx.GetArray(record, "featureIds")
	return err
}
