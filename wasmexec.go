package webclient

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/violetrx/webclient/internal/shautil"
)

var mu = &sync.Mutex{}
var cached map[string][]byte

// wasm_exec.js moved from misc/wasm to lib/wasm in go1.24
var wasmExecPaths = []string{"lib/wasm/wasm_exec.js", "misc/wasm/wasm_exec.js"}

// Current returns wasm_exec.js of the toolchain this binary was built with.
// It must match the toolchain that compiled app.wasm.
func Current() (content []byte, err error) {
	return FromGoroot(runtime.GOROOT())
}

// FromGoroot returns wasm_exec.js from the given GOROOT, cached per root.
func FromGoroot(goroot string) (content []byte, err error) {
	mu.Lock()
	defer mu.Unlock()

	if cached == nil {
		cached = make(map[string][]byte)
	}
	if data, ok := cached[goroot]; ok {
		return data, nil
	}
	if goroot == "" {
		return nil, errors.New("wasm_exec.js: empty GOROOT")
	}

	var data []byte
	if data, err = readWasmExec(goroot); err != nil {
		return nil, err
	}
	cached[goroot] = data
	return data, nil
}

func readWasmExec(goroot string) (content []byte, err error) {
	for _, path := range wasmExecPaths {
		content, err = os.ReadFile(filepath.Join(goroot, path))
		if err == nil {
			return content, nil
		}
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "read %s", path)
		}
	}
	return nil, errors.Errorf("no wasm_exec.js under %q", goroot)
}

// Sum is the sha256 of the wasm_exec.js for goroot, usable as an ETag.
func Sum(goroot string) (sum string, err error) {
	var content []byte
	if content, err = FromGoroot(goroot); err != nil {
		return "", err
	}
	return shautil.ShaString(content), nil
}
