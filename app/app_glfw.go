package app

import (
	"fmt"
	"image"
	"time"

	"github.com/db47h/tinyngine/gl"
	"github.com/db47h/tinyngine/gl/glcore"
	"github.com/db47h/tinyngine/input"
	"github.com/db47h/tinyngine/loop"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DriverVersion returns the GLFW and GL driver versions. It must be called
// after Main has created the window.
//
func DriverVersion() string {
	d, ok := drv.(*glfwDriver)
	if !ok || d.w == nil {
		return "GLFW " + glfw.GetVersionString()
	}
	return fmt.Sprintf("GLFW %s - OpenGL %s", glfw.GetVersionString(), d.w.gl.Version())
}

var drv driver = new(glfwDriver)

type glfwDriver struct {
	w   *window
	a   Interface
	cfg winCfg
}

func (d *glfwDriver) init(a Interface, opts ...WindowOption) error {
	d.cfg = defaultConfig()
	for _, o := range opts {
		o.set(&d.cfg)
	}
	if d.cfg.major < 3 || d.cfg.major == 3 && d.cfg.minor < 3 {
		return errors.Errorf("unsupported OpenGL version %d.%d", d.cfg.major, d.cfg.minor)
	}
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "init GLFW")
	}
	d.a = a

	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, d.cfg.major)
	glfw.WindowHint(glfw.ContextVersionMinor, d.cfg.minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	if err := d.createWindow(); err != nil {
		glfw.Terminate()
		return err
	}

	// setup callbacks
	w := d.w
	w.keys = d.cfg.input
	if h, ok := a.(FrameBufferSizeHandler); ok {
		w.onFrameBufferSize = h
	}
	if h, ok := a.(CursorHandler); ok {
		w.onCursor = h
	}
	if h, ok := a.(ScrollHandler); ok {
		w.onScroll = h
	}
	w.glfw.SetFramebufferSizeCallback(w.glfwFrameBufferSizeCallback)
	w.glfw.SetKeyCallback(w.glfwKeyCallback)
	w.glfw.SetCursorPosCallback(w.glfwCursorPosCallback)
	w.glfw.SetScrollCallback(w.glfwScrollCallback)
	w.CaptureCursor(d.cfg.capture)

	d.cfg.log.Info("window created", zap.String("driver", DriverVersion()))
	return nil
}

func (d *glfwDriver) terminate() {
	if d.w != nil {
		d.w.Destroy()
		d.w = nil
	}
	glfw.Terminate()
}

func (d *glfwDriver) createWindow() error {
	cfg := &d.cfg
	var (
		monitor *glfw.Monitor
		width   = cfg.w
		height  = cfg.h
	)
	if cfg.fullScreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		glfw.WindowHint(glfw.RedBits, mode.RedBits)
		glfw.WindowHint(glfw.GreenBits, mode.GreenBits)
		glfw.WindowHint(glfw.BlueBits, mode.BlueBits)
		glfw.WindowHint(glfw.RefreshRate, mode.RefreshRate)
		width = mode.Width
		height = mode.Height
	}
	if cfg.hidden || (!cfg.fullScreen && cfg.x >= 0 && cfg.y >= 0) {
		glfw.WindowHint(glfw.Visible, glfw.False)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.True)
	}
	w, err := glfw.CreateWindow(width, height, cfg.title, monitor, nil)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	if !cfg.fullScreen && cfg.x >= 0 && cfg.y >= 0 {
		w.SetPos(cfg.x, cfg.y)
		if !cfg.hidden {
			w.Show()
		}
	}

	w.MakeContextCurrent()
	ctx, err := glcore.New()
	if err != nil {
		w.Destroy()
		return err
	}

	if cfg.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	fw, fh := w.GetFramebufferSize()
	d.w = &window{glfw: w, gl: ctx, setViewport: true}
	d.w.SetSize(image.Pt(fw, fh))
	return nil
}

// run runs the frame loop until the window is closed.
//
func (d *glfwDriver) run(a Interface) {
	glfw.PollEvents()
	f := &frame{w: d.w, a: a}
	if d.cfg.fixed != nil {
		d.cfg.fixed.Run(fixedFrame{f})
		return
	}
	l := d.cfg.loop
	if l == nil {
		l = new(loop.Simple)
	}
	l.Run(f)
}

func (d *glfwDriver) window() Window {
	return d.w
}

// frame adapts an Interface to loop.SimpleUpdater.
//
type frame struct {
	w       *window
	a       Interface
	started bool
}

func (f *frame) ProcessEvents() bool {
	if f.started {
		f.w.glfw.SwapBuffers()
	}
	f.started = true
	glfw.PollEvents()
	return f.w.glfw.ShouldClose()
}

func (f *frame) Update(dt time.Duration) {
	f.a.OnUpdate(f.w, dt)
}

func (f *frame) Draw() {
	w := f.w
	if w.setViewport {
		sz := w.Size()
		w.gl.Viewport(0, 0, int32(sz.X), int32(sz.Y))
		w.setViewport = false
	}
	f.a.OnDraw(w)
}

// fixedFrame adapts an Interface to loop.FixedStepUpdater.
//
type fixedFrame struct {
	*frame
}

func (f fixedFrame) Draw(_, partial time.Duration) {
	if h, ok := f.a.(PartialStepHandler); ok {
		h.OnPartialStep(f.w, partial)
	}
	f.frame.Draw()
}

type window struct {
	glfw   *glfw.Window
	gl     *glcore.Context
	keys   *input.Manager
	cursor input.CursorTracker

	Screen
	setViewport bool

	onFrameBufferSize FrameBufferSizeHandler
	onCursor          CursorHandler
	onScroll          ScrollHandler
}

func (w *window) NativeHandle() interface{} {
	return w.glfw
}

func (w *window) GL() gl.Context {
	return w.gl
}

func (w *window) Pressed(k input.Key) bool {
	return w.glfw.GetKey(glfw.Key(k)) == glfw.Press
}

func (w *window) FrameBufferSize() (width, height int) {
	return w.sz.X, w.sz.Y
}

func (w *window) CaptureCursor(capture bool) {
	if capture {
		w.glfw.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		w.glfw.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	w.cursor.Reset()
}

func (w *window) SetShouldClose() {
	w.glfw.SetShouldClose(true)
}

func (w *window) Time() time.Duration {
	return time.Duration(glfw.GetTime() * float64(time.Second))
}

func (w *window) Destroy() {
	w.glfw.Destroy()
}

func (w *window) glfwFrameBufferSizeCallback(_ *glfw.Window, width int, height int) {
	w.SetSize(image.Pt(width, height))
	w.setViewport = true
	if h := w.onFrameBufferSize; h != nil {
		h.OnFrameBufferSize(w, width, height)
	}
}

func (w *window) glfwKeyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if w.keys == nil {
		return
	}
	var ph input.Phase
	switch action {
	case glfw.Press:
		ph = input.Press
	case glfw.Release:
		ph = input.Release
	case glfw.Repeat:
		ph = input.Repeat
	default:
		return
	}
	w.keys.Dispatch(input.Key(key), ph)
}

func (w *window) glfwCursorPosCallback(_ *glfw.Window, x, y float64) {
	dx, dy, ok := w.cursor.Move(x, y)
	if ok && w.onCursor != nil {
		w.onCursor.OnCursor(w, dx, dy)
	}
}

func (w *window) glfwScrollCallback(_ *glfw.Window, dx, dy float64) {
	if w.onScroll != nil {
		w.onScroll.OnScroll(w, float32(dx), float32(dy))
	}
}
