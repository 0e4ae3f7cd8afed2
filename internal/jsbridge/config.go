//go:build js && wasm

package jsbridge

import (
	"encoding/json"

	"github.com/pkg/errors"

	webclient "github.com/violetrx/webclient"
)

// ReadClientConfig decodes the JSON the page server embeds in the element
// with the given id. Missing fields keep their defaults.
func ReadClientConfig(doc *Document, id string) (webclient.ClientConfig, error) {
	cfg := webclient.DefaultClientConfig()
	text, ok := doc.Text(id)
	if !ok {
		return cfg, errors.Errorf("config element %q not found", id)
	}
	if err := json.Unmarshal([]byte(text), &cfg); err != nil {
		return webclient.DefaultClientConfig(), errors.Wrap(err, "decode client config")
	}
	return cfg, nil
}
