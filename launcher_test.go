package webclient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteLauncher(t *testing.T) {
	root := fakeGoroot(t, "lib/wasm/wasm_exec.js", "\"use strict\";\n// go runtime support\n")
	l := Launcher{Goroot: root, GluePath: "./egui_client.js", AppPath: "app.wasm", StatusID: "center_text"}

	rec := httptest.NewRecorder()
	l.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, LauncherPath, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/javascript" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "\"use strict\";\n// go runtime support\n") {
		t.Errorf("launcher does not start with wasm_exec.js: %q", body[:40])
	}
	for _, want := range []string{
		`import init, { WebHandle } from "./egui_client.js";`,
		`globalThis["eguiClient"] = { init, WebHandle };`,
		`fetch("app.wasm")`,
		`document.getElementById("center_text")`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("launcher lacks %s", want)
		}
	}
}

func TestWriteLauncherWithoutWasmExec(t *testing.T) {
	rec := httptest.NewRecorder()
	Launcher{Goroot: t.TempDir()}.WriteLauncher(rec)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}
