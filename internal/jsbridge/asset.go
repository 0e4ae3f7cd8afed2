package jsbridge

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// HTTPAsset fetches the rendering module over HTTP. Under js/wasm the
// default client is backed by the browser's fetch.
type HTTPAsset struct {
	URL    string
	Client *http.Client
}

func (a *HTTPAsset) Fetch(ctx context.Context) ([]byte, error) {
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build asset request")
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", a.URL)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch %s: %s", a.URL, res.Status)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", a.URL)
	}
	return data, nil
}
