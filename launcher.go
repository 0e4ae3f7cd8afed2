package webclient

import (
	"fmt"
	"net/http"
)

// Launcher describes where the launcher finds its pieces.
type Launcher struct {
	Goroot   string
	GluePath string
	AppPath  string
	StatusID string
}

// WriteLauncher writes wasm_exec.js followed by the module code that
// publishes the rendering module glue and runs the bootstrap wasm. The
// result has to be loaded as a module script.
func (l Launcher) WriteLauncher(writer http.ResponseWriter) {
	var data []byte
	var err error
	if data, err = FromGoroot(l.Goroot); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	data = append(data, []byte(l.appJs())...)
	writer.Header().Set("Content-Type", "application/javascript")
	_, _ = writer.Write(data)
}

func (l Launcher) ServeHTTP(writer http.ResponseWriter, _ *http.Request) {
	l.WriteLauncher(writer)
}

func (l Launcher) appJs() string {
	return fmt.Sprintf(appJs, l.GluePath, GlueGlobal, l.AppPath, l.StatusID)
}

var appJs = `
//
// web assembly launcher
//
import init, { WebHandle } from %q;

globalThis[%q] = { init, WebHandle };

(() => {
  const fail = (err) => {
    console.error("error ", err);
    const status = document.getElementById(%[4]q);
    if (status) {
      status.textContent = "An error occurred during loading: " + err;
    }
  };
  const go = new Go();
  WebAssembly.instantiateStreaming(fetch(%[3]q), go.importObject)
    .then((result) => {
      go.run(result.instance)
        .then(() => console.log("go.run exited"))
        .catch(fail);
    }).catch(fail)
})();
`
