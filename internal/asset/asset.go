// Package asset checks the rendering module before it is served, so a
// broken or mismatched build fails at server start rather than in every
// browser that loads the page.
package asset

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero"

	"github.com/violetrx/webclient/internal/shautil"
)

// RequiredExports are the wasm-bindgen exports behind the handle methods the
// bootstrap calls.
var RequiredExports = []string{
	"webhandle_new",
	"webhandle_start",
	"webhandle_has_panicked",
	"webhandle_new_fft_frame",
}

// Info describes a compiled rendering module.
type Info struct {
	Size    int
	SHA256  string
	Exports []string
	Imports []string
}

// ETag returns the strong entity tag of the module.
func (i *Info) ETag() string {
	return shautil.ETag(i.SHA256)
}

// Inspect compiles wasm without instantiating it and checks that every name
// in required is an exported function.
func Inspect(ctx context.Context, wasm []byte, required []string) (*Info, error) {
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Wrap(err, "compile rendering module")
	}
	defer compiled.Close(ctx)

	info := &Info{Size: len(wasm), SHA256: shautil.ShaString(wasm)}
	exported := compiled.ExportedFunctions()
	for name := range exported {
		info.Exports = append(info.Exports, name)
	}
	sort.Strings(info.Exports)

	for _, def := range compiled.ImportedFunctions() {
		module, name, _ := def.Import()
		info.Imports = append(info.Imports, module+"."+name)
	}
	sort.Strings(info.Imports)

	var missing []string
	for _, name := range required {
		if _, ok := exported[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return info, errors.Errorf("rendering module lacks exports: %s", strings.Join(missing, ", "))
	}
	return info, nil
}

// Load reads and inspects the module at path.
func Load(ctx context.Context, path string, required []string) (*Info, []byte, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read rendering module")
	}
	info, err := Inspect(ctx, wasm, required)
	if err != nil {
		return nil, nil, errors.WithMessage(err, path)
	}
	return info, wasm, nil
}
