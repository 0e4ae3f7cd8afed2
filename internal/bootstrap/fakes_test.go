package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// manualClock runs scheduled funcs only when Advance is called.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock *manualClock
	when  time.Duration
	f     func()
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, when: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	for i, p := range t.clock.timers {
		if p == t {
			t.clock.timers = append(t.clock.timers[:i], t.clock.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	for {
		next := -1
		for i, t := range c.timers {
			if t.when <= target && (next < 0 || t.when < c.timers[next].when) {
				next = i
			}
		}
		if next < 0 {
			break
		}
		t := c.timers[next]
		c.timers = append(c.timers[:next], c.timers[next+1:]...)
		c.now = t.when
		c.mu.Unlock()
		t.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

type fakeAssets struct {
	data []byte
	err  error
}

func (a *fakeAssets) Fetch(context.Context) ([]byte, error) {
	return a.data, a.err
}

type fakeModule struct {
	loadErr   error
	handleErr error
	handle    *fakeHandle

	mu      sync.Mutex
	loaded  []byte
	handles int
}

func (m *fakeModule) Load(_ context.Context, asset []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = asset
	return m.loadErr
}

func (m *fakeModule) NewHandle() (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handleErr != nil {
		return nil, m.handleErr
	}
	m.handles++
	return m.handle, nil
}

func (m *fakeModule) handleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handles
}

type deliveredFrame struct {
	samples    []float32
	seconds    int64
	nanos      int32
	centerFreq float64
	sampleRate float64
}

type fakeHandle struct {
	startErr error
	// release, when set, blocks Start until it is closed
	release chan struct{}

	mu         sync.Mutex
	panicked   bool
	panicMsg   string
	panicStack string
	canvases   []string
	frames     []deliveredFrame
	destroyed  bool
}

func (h *fakeHandle) Start(_ context.Context, canvasID string) error {
	if h.release != nil {
		<-h.release
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.canvases = append(h.canvases, canvasID)
	return h.startErr
}

func (h *fakeHandle) HasPanicked() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.panicked
}

func (h *fakeHandle) PanicMessage() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.panicMsg
}

func (h *fakeHandle) PanicCallstack() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.panicStack
}

func (h *fakeHandle) NewFftFrame(samples []float32, seconds int64, nanos int32, centerFreq, sampleRate float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, deliveredFrame{samples, seconds, nanos, centerFreq, sampleRate})
}

func (h *fakeHandle) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = true
}

func (h *fakeHandle) crash(message, callstack string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panicked = true
	h.panicMsg = message
	h.panicStack = callstack
}

func (h *fakeHandle) delivered() []deliveredFrame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]deliveredFrame(nil), h.frames...)
}

type fakeChannel struct {
	mu         sync.Mutex
	errs       map[string]error
	frame      *Frame
	calls      []string
	descriptor string
}

func newFakeChannel(frame *Frame) *fakeChannel {
	return &fakeChannel{errs: map[string]error{}, frame: frame}
}

func (ch *fakeChannel) record(name string) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.calls = append(ch.calls, name)
	return ch.errs[name]
}

func (ch *fakeChannel) setErr(name string, err error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.errs[name] = err
}

func (ch *fakeChannel) SetInputDevice(_ context.Context, descriptor string) error {
	ch.mu.Lock()
	ch.descriptor = descriptor
	ch.mu.Unlock()
	return ch.record("SetInputDevice")
}

func (ch *fakeChannel) Start(context.Context) error {
	return ch.record("Start")
}

func (ch *fakeChannel) GetFftData(context.Context) (*Frame, error) {
	if err := ch.record("GetFftData"); err != nil {
		return nil, err
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.frame, nil
}

func (ch *fakeChannel) callLog() []string {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return append([]string(nil), ch.calls...)
}

type fakeDocument struct {
	mu        sync.Mutex
	present   map[string]bool
	html      map[string]string
	writes    map[string]int
	removals  int
	onSetHTML func(id, html string)
}

func newFakeDocument(ids ...string) *fakeDocument {
	d := &fakeDocument{present: map[string]bool{}, html: map[string]string{}, writes: map[string]int{}}
	for _, id := range ids {
		d.present[id] = true
		d.html[id] = "Loading…"
	}
	return d
}

func (d *fakeDocument) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.present[id] {
		return
	}
	delete(d.present, id)
	d.removals++
}

func (d *fakeDocument) SetHTML(id, html string) {
	d.mu.Lock()
	d.html[id] = html
	d.writes[id]++
	hook := d.onSetHTML
	d.mu.Unlock()
	if hook != nil {
		hook(id, html)
	}
}

func (d *fakeDocument) has(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.present[id]
}

func (d *fakeDocument) content(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.html[id]
}

func (d *fakeDocument) writeCount(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes[id]
}

type fixture struct {
	assets  *fakeAssets
	module  *fakeModule
	handle  *fakeHandle
	channel *fakeChannel
	doc     *fakeDocument
	clock   *manualClock
	dialed  []string
	dialErr error
}

func newFixture() *fixture {
	handle := &fakeHandle{}
	return &fixture{
		assets: &fakeAssets{data: []byte("\x00asm")},
		module: &fakeModule{handle: handle},
		handle: handle,
		channel: newFakeChannel(&Frame{
			Samples:    []float32{-80, -42.5, -60},
			Timestamp:  Timestamp{Seconds: 1700000000, Nanos: 250},
			CenterFreq: 100e6,
			SampleRate: 14.122e6,
		}),
		doc:   newFakeDocument(DefaultCanvasID, DefaultStatusID),
		clock: &manualClock{},
	}
}

func (f *fixture) controller(opts Options) *Controller {
	c, err := New(Deps{
		Assets: f.assets,
		Module: f.module,
		Dial: func(baseURL string) (Channel, error) {
			f.dialed = append(f.dialed, baseURL)
			if f.dialErr != nil {
				return nil, f.dialErr
			}
			return f.channel, nil
		},
		Document: f.doc,
		Clock:    f.clock,
		Logger:   discardLogger(),
	}, opts)
	if err != nil {
		panic(err)
	}
	return c
}
