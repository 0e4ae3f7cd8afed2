//go:build js && wasm

package jsbridge

import (
	"context"
	"encoding/binary"
	"log/slog"
	"math"
	"strconv"
	"syscall/js"

	"github.com/pkg/errors"

	"github.com/violetrx/webclient/internal/bootstrap"
)

// Module implements bootstrap.Module over the wasm-bindgen glue that the
// launcher publishes as a global object with "init" and "WebHandle".
type Module struct {
	global string
	log    *slog.Logger
}

func NewModule(global string, logger *slog.Logger) *Module {
	return &Module{global: global, log: logger}
}

func (m *Module) glue() (js.Value, error) {
	g := js.Global().Get(m.global)
	if !g.Truthy() {
		return js.Undefined(), errors.Errorf("rendering module glue %q is not loaded", m.global)
	}
	return g, nil
}

func (m *Module) Load(ctx context.Context, asset []byte) error {
	g, err := m.glue()
	if err != nil {
		return err
	}
	buf := js.Global().Get("Uint8Array").New(len(asset))
	js.CopyBytesToJS(buf, asset)

	var promise js.Value
	if err = catch(func() { promise = g.Call("init", buf) }); err != nil {
		return err
	}
	_, err = Await(ctx, promise)
	return err
}

func (m *Module) NewHandle() (bootstrap.Handle, error) {
	g, err := m.glue()
	if err != nil {
		return nil, err
	}
	var v js.Value
	if err = catch(func() { v = g.Get("WebHandle").New() }); err != nil {
		return nil, err
	}
	return &Handle{v: v, log: m.log}, nil
}

// Handle implements bootstrap.Handle over a WebHandle instance.
type Handle struct {
	v   js.Value
	log *slog.Logger
}

func (h *Handle) Start(ctx context.Context, canvasID string) error {
	var promise js.Value
	if err := catch(func() { promise = h.v.Call("start", canvasID) }); err != nil {
		return err
	}
	_, err := Await(ctx, promise)
	return err
}

// HasPanicked also reports true when the check itself throws, since the
// module is unusable either way.
func (h *Handle) HasPanicked() bool {
	var panicked bool
	if err := catch(func() { panicked = h.v.Call("has_panicked").Truthy() }); err != nil {
		h.log.Error("has_panicked", "error", err)
		return true
	}
	return panicked
}

func (h *Handle) PanicMessage() string {
	return h.optionalString("panic_message")
}

func (h *Handle) PanicCallstack() string {
	return h.optionalString("panic_callstack")
}

func (h *Handle) optionalString(method string) string {
	var s string
	err := catch(func() {
		v := h.v.Call(method)
		if v.Type() == js.TypeString {
			s = v.String()
		}
	})
	if err != nil {
		h.log.Error(method, "error", err)
	}
	return s
}

func (h *Handle) NewFftFrame(samples []float32, seconds int64, nanos int32, centerFreq, sampleRate float64) {
	args := []any{float32Array(samples)}
	for _, arg := range fftFrameArgs(seconds, nanos, centerFreq, sampleRate) {
		if b, ok := arg.(bigInt); ok {
			arg = js.Global().Get("BigInt").Invoke(strconv.FormatInt(int64(b), 10))
		}
		args = append(args, arg)
	}
	if err := catch(func() { h.v.Call("new_fft_frame", args...) }); err != nil {
		h.log.Error("new_fft_frame", "error", err, "samples", len(samples))
	}
}

func (h *Handle) Destroy() {
	if err := catch(func() {
		h.v.Call("destroy")
		h.v.Call("free")
	}); err != nil {
		h.log.Warn("destroy handle", "error", err)
	}
}

func float32Array(samples []float32) js.Value {
	b := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(s))
	}
	u8 := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(u8, b)
	return js.Global().Get("Float32Array").New(u8.Get("buffer"))
}
