// Package nimbus implements the nimbus-cli lifecycle operations.
//
// A [*Session] binds a Nimbus app identity to the device adapter that
// launches it and to the resolver that fetches recipes. Device bound
// operations report whether the final device command exited successfully.
package nimbus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/nimbus-devtools/nimbus-cli/internal/device"
	"github.com/nimbus-devtools/nimbus-cli/internal/fsx"
	"github.com/nimbus-devtools/nimbus-cli/internal/jsonx"
	"github.com/nimbus-devtools/nimbus-cli/internal/model"
	"github.com/nimbus-devtools/nimbus-cli/internal/output"
	"github.com/nimbus-devtools/nimbus-cli/internal/recipe"
	"github.com/nimbus-devtools/nimbus-cli/internal/source"
)

// Session contains what the lifecycle operations need.
type Session struct {
	// App is the MANDATORY app identity used to filter recipes.
	App model.NimbusApp

	// Device is the OPTIONAL device adapter. Operations that control
	// the device panic when it is nil.
	Device *device.Adapter

	// Resolver is the MANDATORY recipe resolver.
	Resolver *source.Resolver

	// Logger is the OPTIONAL logger.
	Logger model.Logger
}

// NewSession creates a new [*Session].
func NewSession(app model.NimbusApp, dev *device.Adapter, resolver *source.Resolver, logger model.Logger) *Session {
	return &Session{
		App:      app,
		Device:   dev,
		Resolver: resolver,
		Logger:   logger,
	}
}

func (s *Session) logger() model.Logger {
	return model.ValidLoggerOrDefault(s.Logger)
}

// EnrollParams contains the arguments of [Session.Enroll].
type EnrollParams struct {
	// Experiment is the MANDATORY experiment to enroll in.
	Experiment model.ExperimentSource

	// Branch is the MANDATORY slug of the branch to enroll in.
	Branch string

	// Rollouts contains the OPTIONAL rollouts to enroll in as well.
	Rollouts []model.ExperimentSource

	// PreserveTargeting keeps the recipes' targeting.
	PreserveTargeting bool

	// PreserveBucketing keeps the recipes' bucketing.
	PreserveBucketing bool

	// PreserveNimbusDB keeps the app's experiments database.
	PreserveNimbusDB bool

	// ResetApp clears the app's data before launching it.
	ResetApp bool
}

func (p *EnrollParams) options() recipe.Options {
	return recipe.Options{
		PreserveTargeting: p.PreserveTargeting,
		PreserveBucketing: p.PreserveBucketing,
	}
}

// Enroll launches the app enrolled in one branch of the experiment and
// in every rollout, using a single launch.
func (s *Session) Enroll(ctx context.Context, params *EnrollParams) (bool, error) {
	record, err := s.Resolver.Resolve(ctx, params.Experiment)
	if err != nil {
		return false, err
	}
	slug, err := jsonx.GetStr(record, "slug")
	if err != nil {
		return false, err
	}
	exp, err := recipe.PrepareExperiment(record, s.App, params.Branch, params.options())
	if err != nil {
		return false, err
	}
	recipes := []any{exp}
	output.Comment(fmt.Sprintf("Enrolling in the '%s' branch of '%s'", params.Branch, slug))

	for _, src := range params.Rollouts {
		record, err := s.Resolver.Resolve(ctx, src)
		if err != nil {
			return false, err
		}
		slug, err := jsonx.GetStr(record, "slug")
		if err != nil {
			return false, err
		}
		rollout, err := recipe.PrepareRollout(record, s.App, params.options())
		if err != nil {
			return false, err
		}
		recipes = append(recipes, rollout)
		output.Comment(fmt.Sprintf("Enrolling into the '%s' rollout", slug))
	}

	if params.ResetApp {
		ok, err := s.Device.Reset()
		if err != nil {
			return false, err
		}
		if !ok {
			s.logger().Warnf("nimbus: cannot reset %s", s.App.AppName)
		}
	}
	return s.Device.Start(!params.PreserveNimbusDB, Payload(recipes), true)
}

// Payload returns the `{"data": [...]}` document wrapping recipes.
func Payload(recipes []any) map[string]any {
	if recipes == nil {
		recipes = []any{}
	}
	return map[string]any{"data": recipes}
}

// UnenrollAll launches the app with no recipes, which unenrolls it
// from everything while keeping its database.
func (s *Session) UnenrollAll() (bool, error) {
	return s.Device.Start(false, Payload(nil), true)
}

// ApplyList launches the app with the whole list as the payload.
func (s *Session) ApplyList(ctx context.Context, list model.ExperimentListSource, preserveNimbusDB bool) (bool, error) {
	doc, err := s.Resolver.ResolveList(ctx, list)
	if err != nil {
		return false, err
	}
	return s.Device.Start(!preserveNimbusDB, doc, true)
}

// LogState launches the app asking it to log its experiments state.
func (s *Session) LogState() (bool, error) {
	return s.Device.Start(false, nil, true)
}

// Kill stops the app.
func (s *Session) Kill() (bool, error) {
	return s.Device.Kill()
}

// Reset clears the app's data.
func (s *Session) Reset() (bool, error) {
	return s.Device.Reset()
}

// CaptureLogs writes the app's logs to file.
func (s *Session) CaptureLogs(file string) (bool, error) {
	return s.Device.CaptureLogs(file)
}

// TailLogs follows the app's logs.
func (s *Session) TailLogs() (bool, error) {
	return s.Device.TailLogs()
}

// FetchList writes the recipes of list that target the app to file.
func (s *Session) FetchList(ctx context.Context, list model.ExperimentListSource, file string) (bool, error) {
	doc, err := s.Resolver.ResolveList(ctx, list)
	if err != nil {
		return false, err
	}
	data, err := jsonx.DataList(doc)
	if err != nil {
		return false, err
	}
	filtered, err := s.filter(data)
	if err != nil {
		return false, err
	}
	return true, WriteRecipes(file, filtered)
}

// FetchRecipes resolves each source and writes the recipes that target
// the app to file.
func (s *Session) FetchRecipes(ctx context.Context, sources []model.ExperimentSource, file string) (bool, error) {
	var data []any
	for _, src := range sources {
		record, err := s.Resolver.Resolve(ctx, src)
		if err != nil {
			return false, err
		}
		data = append(data, record)
	}
	filtered, err := s.filter(data)
	if err != nil {
		return false, err
	}
	return true, WriteRecipes(file, filtered)
}

// filter returns the records whose appName is the app's, in order.
func (s *Session) filter(data []any) ([]any, error) {
	out := []any{}
	for _, record := range data {
		appName, err := jsonx.GetStr(record, "appName")
		if err != nil {
			return nil, err
		}
		if appName != s.App.AppName {
			s.logger().Debugf("nimbus: skipping recipe for %s", appName)
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

// WriteRecipes writes `{"data": recipes}` to file as indented JSON.
func WriteRecipes(file string, recipes []any) error {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Payload(recipes)); err != nil {
		return err
	}
	return fsx.WriteFile(file, bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// List renders the recipes of list that target the app as a table.
func (s *Session) List(ctx context.Context, list model.ExperimentListSource) (bool, error) {
	doc, err := s.Resolver.ResolveList(ctx, list)
	if err != nil {
		return false, err
	}
	data, err := jsonx.DataList(doc)
	if err != nil {
		return false, err
	}
	var rows []output.ExperimentRowData
	for _, record := range data {
		slug, err := jsonx.GetStr(record, "slug")
		if err != nil {
			return false, err
		}
		appName, err := jsonx.GetStr(record, "appName")
		if err != nil {
			return false, err
		}
		if appName != s.App.AppName {
			continue
		}
		row, err := experimentRow(slug, record)
		if err != nil {
			return false, err
		}
		rows = append(rows, row)
	}
	output.SectionTitle(listTitle(list))
	output.ExperimentHeader()
	for _, row := range rows {
		output.ExperimentRow(row)
	}
	return true, nil
}

// experimentRow reads the features and branches of a record targeting the app.
func experimentRow(slug string, record any) (output.ExperimentRowData, error) {
	features, err := jsonx.GetArray(record, "featureIds")
	if err != nil {
		return output.ExperimentRowData{}, err
	}
	branches, err := jsonx.GetArray(record, "branches")
	if err != nil {
		return output.ExperimentRowData{}, err
	}
	row := output.ExperimentRowData{Slug: slug}
	for _, entry := range features {
		if id, good := entry.(string); good {
			row.Features = append(row.Features, id)
		}
	}
	for _, entry := range branches {
		branch, err := jsonx.GetStr(entry, "slug")
		if err != nil {
			return output.ExperimentRowData{}, err
		}
		row.Branches = append(row.Branches, branch)
	}
	return row, nil
}

func listTitle(list model.ExperimentListSource) string {
	switch list := list.(type) {
	case *model.RemoteSettingsList:
		return fmt.Sprintf("Experiments in %s (%s)", list.CollectionName(), list.Endpoint)
	case *model.FileList:
		return "Experiments in " + list.File
	default:
		return "Experiments"
	}
}
