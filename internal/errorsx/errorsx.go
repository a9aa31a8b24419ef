// Package errorsx contains the error kinds returned by nimbus-cli.
//
// Every error a command returns wraps one of these sentinels (most of
// the time using github.com/pkg/errors to add context), so callers can
// classify failures using errors.Is.
package errorsx

import "errors"

var (
	// ErrMissingField means that a JSON object lacks a required field.
	ErrMissingField = errors.New("missing field")

	// ErrWrongType means that a JSON field has an unexpected type.
	ErrWrongType = errors.New("wrong type")

	// ErrSourceUnavailable means we could not fetch a remote list.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrInvalidSource means a local file or feature definition could
	// not be read or parsed.
	ErrInvalidSource = errors.New("invalid source")

	// ErrExperimentNotFound means a list does not contain the requested slug.
	ErrExperimentNotFound = errors.New("experiment not found")

	// ErrAppMismatch means a recipe targets another app.
	ErrAppMismatch = errors.New("app mismatch")

	// ErrBranchNotFound means an experiment lacks the requested branch.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrLogsUnavailable means the app has not written any log file yet.
	ErrLogsUnavailable = errors.New("logs are not available before the app is started for the first time")
)
