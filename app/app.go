// Package app runs an application in a GLFW window with an OpenGL 3.3 core
// context.
//
package app

import (
	"runtime"
	"time"

	"github.com/db47h/tinyngine/gl"
	"github.com/db47h/tinyngine/input"
	"github.com/db47h/tinyngine/loop"
	"go.uber.org/zap"
)

func init() {
	// GLFW event handling must run on the main thread.
	runtime.LockOSThread()
}

// Main creates the application window, calls a.Init, runs the frame loop until
// the window is closed, then calls a.Terminate.
//
func Main(a Interface, opts ...WindowOption) error {
	if err := drv.init(a, opts...); err != nil {
		return err
	}
	defer drv.terminate()
	if err := a.Init(drv.window()); err != nil {
		return err
	}
	drv.run(a)
	return a.Terminate()
}

// Window is the application window.
//
type Window interface {
	NativeHandle() interface{}
	// GL returns the GL context of the window.
	GL() gl.Context
	// Pressed reports whether key k is currently held down.
	Pressed(k input.Key) bool
	FrameBufferSize() (width, height int)
	// Aspect returns the width to height ratio of the frame buffer.
	Aspect() float32
	// CaptureCursor hides the cursor and locks it to the window.
	CaptureCursor(capture bool)
	SetShouldClose()
	// Time returns the time elapsed since the window was created.
	Time() time.Duration
}

type driver interface {
	init(Interface, ...WindowOption) error
	terminate()
	run(Interface)
	window() Window
}

// Interface is implemented by applications.
//
type Interface interface {
	Init(Window) error
	Terminate() error

	OnUpdate(w Window, dt time.Duration)
	OnDraw(Window)
}

// WindowOption configures the window created by Main.
//
type WindowOption interface {
	set(*winCfg)
}

type winCfg struct {
	fullScreen bool
	hidden     bool
	vsync      bool
	capture    bool
	x, y, w, h int
	major      int
	minor      int
	title      string
	input      *input.Manager
	log        *zap.Logger
	loop       *loop.Simple
	fixed      *loop.FixedStep
}

func defaultConfig() winCfg {
	return winCfg{
		title: "tinyngine",
		x:     -1,
		y:     -1,
		w:     800,
		h:     600,
		major: 3,
		minor: 3,
		vsync: true,
		log:   zap.NewNop(),
	}
}

type winOption func(*winCfg)

func (f winOption) set(cfg *winCfg) {
	f(cfg)
}

func Title(title string) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.title = title
	})
}

func Pos(x, y int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.x, cfg.y = x, y
	})
}

func Size(w, h int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.w, cfg.h = w, h
	})
}

func FullScreen() WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.fullScreen = true
	})
}

func Visible(b bool) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.hidden = !b
	})
}

// VSync enables or disables vertical synchronization. It is enabled by
// default.
//
func VSync(b bool) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.vsync = b
	})
}

// GLVersion sets the requested OpenGL core profile version. Versions before
// 3.3 are not supported.
//
func GLVersion(major, minor int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.major, cfg.minor = major, minor
	})
}

// CaptureCursor captures the cursor when the window is created.
//
func CaptureCursor() WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.capture = true
	})
}

// Input sets the manager key events are dispatched to.
//
func Input(m *input.Manager) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.input = m
	})
}

func Logger(l *zap.Logger) WindowOption {
	return winOption(func(cfg *winCfg) {
		if l != nil {
			cfg.log = l
		}
	})
}

// Loop sets the frame loop. Use it to set a minimum frame time or a custom
// clock.
//
func Loop(l *loop.Simple) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.loop, cfg.fixed = l, nil
	})
}

// FixedLoop runs the application with a fixed timestep loop: OnUpdate is called
// zero or more times per frame with dt set to l.DT. Applications implementing
// PartialStepHandler are told how far into the next timestep each frame is drawn.
//
func FixedLoop(l *loop.FixedStep) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.loop, cfg.fixed = nil, l
	})
}

// FrameBufferSizeHandler is implemented by applications that want to be
// notified of frame buffer size changes. The viewport is updated before the
// next call to OnDraw, after the handler returns.
//
type FrameBufferSizeHandler interface {
	OnFrameBufferSize(w Window, width, height int)
}

// CursorHandler is implemented by applications that want cursor motion. dx
// and dy are offsets from the previous position, dy increasing upwards.
//
type CursorHandler interface {
	OnCursor(w Window, dx, dy float32)
}

// ScrollHandler is implemented by applications that want scroll events.
//
type ScrollHandler interface {
	OnScroll(w Window, dx, dy float32)
}

// PartialStepHandler is implemented by applications run by FixedLoop that
// interpolate state between updates. OnPartialStep is called before each
// OnDraw with the time accumulated since the last update, less than one
// timestep.
//
type PartialStepHandler interface {
	OnPartialStep(w Window, partial time.Duration)
}
