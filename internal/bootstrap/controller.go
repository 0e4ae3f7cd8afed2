package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultCanvasID     = "the_canvas_id"
	DefaultStatusID     = "center_text"
	DefaultBackendPort  = 50051
	DefaultPollInterval = time.Second
)

// State is the lifecycle position of a Controller.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateRunning
	StateFailed
	StateCrashed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateCrashed:
		return "crashed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// BackendURL returns the receiver address for the page host.
func BackendURL(hostname string, port int) string {
	return fmt.Sprintf("http://%s:%d", hostname, port)
}

// Options configures a Controller. Zero values fall back to the defaults.
type Options struct {
	CanvasID    string
	StatusID    string
	BaseURL     string
	InputDevice string
	// PollInterval is the crash watch period.
	PollInterval time.Duration
	// FrameInterval, when positive, keeps fetching frames after the first
	// one was delivered.
	FrameInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.CanvasID == "" {
		o.CanvasID = DefaultCanvasID
	}
	if o.StatusID == "" {
		o.StatusID = DefaultStatusID
	}
	if o.BaseURL == "" {
		o.BaseURL = BackendURL("localhost", DefaultBackendPort)
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	return o
}

// Deps are the collaborators of a Controller. Clock and Logger are optional.
type Deps struct {
	Assets   AssetSource
	Module   Module
	Dial     Dialer
	Document Document
	Clock    Clock
	Logger   *slog.Logger
}

// Controller owns the rendering handle and the receiver channel for the
// lifetime of the page.
type Controller struct {
	opts   Options
	assets AssetSource
	module Module
	dial   Dialer
	doc    Document
	clock  Clock
	log    *slog.Logger

	mu      sync.Mutex
	state   State
	handle  Handle
	watch   *CrashWatch
	refresh Timer
	closed  bool
}

func New(deps Deps, opts Options) (*Controller, error) {
	switch {
	case deps.Assets == nil:
		return nil, errors.New("bootstrap: nil asset source")
	case deps.Module == nil:
		return nil, errors.New("bootstrap: nil module")
	case deps.Dial == nil:
		return nil, errors.New("bootstrap: nil dialer")
	case deps.Document == nil:
		return nil, errors.New("bootstrap: nil document")
	}
	if deps.Clock == nil {
		deps.Clock = RealClock()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		opts:   opts.withDefaults(),
		assets: deps.Assets,
		module: deps.Module,
		dial:   deps.Dial,
		doc:    deps.Document,
		clock:  deps.Clock,
		log:    deps.Logger,
	}, nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run executes the startup sequence once. Rendering start and the receiver
// sequence run concurrently and no order between "rendering started" and
// "first frame delivered" is guaranteed. Run returns after both finished;
// every failure has already been reported on the page by then. The crash
// watch and the optional frame refresh keep running after Run returns.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return errors.Errorf("bootstrap: controller is %s", c.state)
	}
	c.state = StateLoading
	c.mu.Unlock()

	c.log.Debug("loading rendering asset")
	if err := c.loadRenderingAsset(ctx); err != nil {
		c.fail(err)
		return err
	}

	handle, err := c.createHandle()
	if err != nil {
		c.fail(err)
		return err
	}
	c.log.Debug("rendering asset loaded, starting app")

	c.startCrashWatch(handle)

	var wg sync.WaitGroup
	var startErr, channelErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		startErr = c.startRendering(ctx, handle)
	}()
	go func() {
		defer wg.Done()
		channelErr = c.runChannel(ctx, handle)
	}()
	wg.Wait()

	if startErr != nil {
		return startErr
	}
	return channelErr
}

func (c *Controller) loadRenderingAsset(ctx context.Context) error {
	asset, err := c.assets.Fetch(ctx)
	if err != nil {
		return wrap(KindAssetLoad, "fetch rendering asset", err)
	}
	return wrap(KindAssetLoad, "load rendering asset", c.module.Load(ctx, asset))
}

func (c *Controller) createHandle() (Handle, error) {
	handle, err := c.module.NewHandle()
	if err != nil {
		return nil, wrap(KindRenderingStart, "create handle", err)
	}
	c.mu.Lock()
	c.handle = handle
	c.mu.Unlock()
	return handle, nil
}

func (c *Controller) startCrashWatch(handle Handle) {
	w := NewCrashWatch(handle, c.clock, c.opts.PollInterval, c.crashed)
	c.mu.Lock()
	c.watch = w
	c.mu.Unlock()
	w.Start()
}

func (c *Controller) startRendering(ctx context.Context, handle Handle) error {
	if err := handle.Start(ctx, c.opts.CanvasID); err != nil {
		err = wrap(KindRenderingStart, "start rendering", err)
		c.fail(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateLoading {
		c.log.Debug("rendering started after the page was reported", "state", c.state)
		return nil
	}
	c.state = StateRunning
	c.log.Debug("app started")
	c.doc.SetHTML(c.opts.StatusID, "")
	return nil
}

func (c *Controller) runChannel(ctx context.Context, handle Handle) error {
	channel, err := c.establishChannel()
	if err == nil {
		err = c.configureInputDevice(ctx, channel)
	}
	if err == nil {
		err = c.startAcquisition(ctx, channel)
	}
	var frame *Frame
	if err == nil {
		frame, err = c.fetchFftFrame(ctx, channel)
	}
	if err != nil {
		c.fail(err)
		return err
	}
	c.deliverFrame(handle, frame)
	c.scheduleRefresh(ctx, handle, channel)
	return nil
}

func (c *Controller) establishChannel() (Channel, error) {
	channel, err := c.dial(c.opts.BaseURL)
	if err != nil {
		return nil, wrap(KindChannelCall, "establish channel", err)
	}
	c.log.Debug("channel established", "url", c.opts.BaseURL)
	return channel, nil
}

func (c *Controller) configureInputDevice(ctx context.Context, channel Channel) error {
	return wrap(KindChannelCall, "set input device", channel.SetInputDevice(ctx, c.opts.InputDevice))
}

func (c *Controller) startAcquisition(ctx context.Context, channel Channel) error {
	return wrap(KindChannelCall, "start acquisition", channel.Start(ctx))
}

func (c *Controller) fetchFftFrame(ctx context.Context, channel Channel) (*Frame, error) {
	frame, err := channel.GetFftData(ctx)
	if err != nil {
		return nil, wrap(KindChannelCall, "get fft data", err)
	}
	if frame == nil {
		return nil, wrap(KindChannelCall, "get fft data", ErrMissingFrame)
	}
	return frame, nil
}

func (c *Controller) deliverFrame(handle Handle, frame *Frame) {
	handle.NewFftFrame(frame.samplesBuffer(), frame.Timestamp.Seconds, frame.Timestamp.Nanos,
		frame.CenterFreq, frame.SampleRate)
}

func (c *Controller) scheduleRefresh(ctx context.Context, handle Handle, channel Channel) {
	if c.opts.FrameInterval <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state == StateFailed || c.state == StateCrashed || ctx.Err() != nil {
		c.refresh = nil
		return
	}
	c.refresh = c.clock.AfterFunc(c.opts.FrameInterval, func() {
		c.refreshFrame(ctx, handle, channel)
	})
}

// refreshFrame errors are not terminal: the next refresh is still scheduled.
func (c *Controller) refreshFrame(ctx context.Context, handle Handle, channel Channel) {
	frame, err := c.fetchFftFrame(ctx, channel)
	switch {
	case ctx.Err() != nil:
		return
	case err != nil:
		c.log.Warn("refresh fft frame", "error", err)
	case c.State() == StateCrashed:
		return
	default:
		c.deliverFrame(handle, frame)
	}
	c.scheduleRefresh(ctx, handle, channel)
}

// fail renders the failure report. It may run more than once, and after a
// crash report, without harm.
func (c *Controller) fail(err error) {
	c.log.Error("failed to start", "kind", KindOf(err), "error", err)
	report := renderFailure(err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateCrashed {
		c.state = StateFailed
	}
	c.stopRefreshLocked()
	c.doc.Remove(c.opts.CanvasID)
	c.doc.SetHTML(c.opts.StatusID, report)
}

func (c *Controller) crashed(message, callstack string) {
	c.log.Error("the app has crashed", "message", message, "callstack", callstack)
	report := renderCrash(message)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateCrashed
	c.stopRefreshLocked()
	c.doc.Remove(c.opts.CanvasID)
	c.doc.SetHTML(c.opts.StatusID, report)
}

func (c *Controller) stopRefreshLocked() {
	if c.refresh != nil {
		c.refresh.Stop()
		c.refresh = nil
	}
}

// Close stops the crash watch and the frame refresh and destroys the
// handle. The page does not need it; it exists for embedding and tests.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopRefreshLocked()
	watch, handle := c.watch, c.handle
	c.mu.Unlock()

	if watch != nil {
		watch.Stop()
	}
	if handle != nil {
		handle.Destroy()
	}
}
