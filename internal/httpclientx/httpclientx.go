// Package httpclientx contains a minimal HTTP client for fetching
// documents with a single GET request.
package httpclientx

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/nimbus-devtools/nimbus-cli/internal/model"
)

// HTTPClient is the subset of *http.Client we use.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config contains configuration for [GetRaw].
//
// The zero value is invalid; initialize the MANDATORY fields.
type Config struct {
	// Client is the MANDATORY [HTTPClient] to use.
	Client HTTPClient

	// Logger is the MANDATORY [model.Logger] to use.
	Logger model.Logger

	// UserAgent is the MANDATORY User-Agent header value to use.
	UserAgent string
}

// ErrRequestFailed is the error returned when the server responds with
// a status code that does not indicate success.
type ErrRequestFailed struct {
	StatusCode int
}

// Error implements error.
func (err *ErrRequestFailed) Error() string {
	return fmt.Sprintf("httpclientx: request failed: %d", err.StatusCode)
}

// GetRaw sends a GET request and reads a raw response.
//
// There is no retry: the single attempt either succeeds or fails.
func GetRaw(ctx context.Context, config *Config, URL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", config.UserAgent)
	req.Header.Set("Accept", "application/json")

	config.Logger.Debugf("GET %s", URL)
	resp, err := config.Client.Do(req)
	if err != nil {
		config.Logger.Debugf("GET %s: %s", URL, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ErrRequestFailed{resp.StatusCode}
	}

	rawrespbody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	config.Logger.Debugf("GET %s: got %d bytes", URL, len(rawrespbody))
	return rawrespbody, nil
}
