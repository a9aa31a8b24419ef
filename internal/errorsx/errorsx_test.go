package errorsx

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestWrappedErrorsAreClassified(t *testing.T) {
	sentinels := []error{
		ErrMissingField,
		ErrWrongType,
		ErrSourceUnavailable,
		ErrInvalidSource,
		ErrExperimentNotFound,
		ErrAppMismatch,
		ErrBranchNotFound,
		ErrLogsUnavailable,
	}
	for _, sentinel := range sentinels {
		t.Run(sentinel.Error(), func(t *testing.T) {
			err := pkgerrors.Wrap(pkgerrors.Wrapf(sentinel, "inner %d", 1), "outer")
			if !errors.Is(err, sentinel) {
				t.Fatal("expected the sentinel to be reachable", err)
			}
			for _, other := range sentinels {
				if other != sentinel && errors.Is(err, other) {
					t.Fatal("unexpected match", other)
				}
			}
		})
	}
}
