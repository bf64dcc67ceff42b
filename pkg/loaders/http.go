package loaders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrymomot/prefetch/pkg/routes"
)

// HTTP returns a loader that fetches the bundle at url with a GET
// request and drains the response body, warming any HTTP cache between
// this process and the origin. A nil client uses http.DefaultClient.
func HTTP(client *http.Client, url string) routes.Loader {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Join(ErrRequestFailed, err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return errors.Join(ErrRequestFailed, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("%w: %s returned %d", ErrBundleUnavailable, url, resp.StatusCode)
		}

		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return errors.Join(ErrBundleUnavailable, err)
		}

		return nil
	}
}
