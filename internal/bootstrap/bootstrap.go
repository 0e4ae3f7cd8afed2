// Package bootstrap starts the spectrum web client: it loads the rendering
// module, binds a handle to the canvas, watches the handle for panics and
// pushes FFT frames fetched from the receiver into it.
//
// Everything platform specific is reached through the interfaces below, so
// the sequencing and failure behaviour can run outside a browser.
package bootstrap

import "context"

// AssetSource provides the compiled rendering module.
type AssetSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Module is the rendering module before any handle exists.
type Module interface {
	Load(ctx context.Context, asset []byte) error
	NewHandle() (Handle, error)
}

// Handle is the rendering module bound to a canvas.
type Handle interface {
	Start(ctx context.Context, canvasID string) error
	HasPanicked() bool
	PanicMessage() string
	PanicCallstack() string
	NewFftFrame(samples []float32, seconds int64, nanos int32, centerFreq, sampleRate float64)
	Destroy()
}

// Channel is the request/response link to the receiver backend.
type Channel interface {
	SetInputDevice(ctx context.Context, descriptor string) error
	Start(ctx context.Context) error
	GetFftData(ctx context.Context) (*Frame, error)
}

// Dialer builds a Channel for a backend base URL.
type Dialer func(baseURL string) (Channel, error)

// Document is the part of the page the controller mutates. Remove must be
// a no-op for an element that is already gone.
type Document interface {
	Remove(id string)
	SetHTML(id, html string)
}
