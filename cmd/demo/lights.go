package main

import (
	"time"

	"github.com/db47h/tinyngine"
	"github.com/db47h/tinyngine/app"
	"github.com/db47h/tinyngine/assets"
	"github.com/db47h/tinyngine/camera"
	"github.com/db47h/tinyngine/config"
	"github.com/db47h/tinyngine/debug"
	"github.com/db47h/tinyngine/handle"
	"github.com/db47h/tinyngine/input"
	"github.com/db47h/tinyngine/texture"
	gogl "github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	lightPosition  = mgl32.Vec4{1.2, 1.0, 2.0, 1.0}
	lightDirection = mgl32.Vec4{-0.2, -1.0, -0.3, 0.0}
	filterings     = [...]texture.Filtering{texture.Trilinear, texture.Bilinear, texture.Point, texture.NoFiltering}
)

type lights struct {
	cfg     *config.Config
	log     *zap.Logger
	keys    *input.Manager
	mgr     *assets.Manager
	preload <-chan assets.Result
	watch   *assets.Watcher

	c   *tinyngine.Context
	cam *camera.Camera
	fps debug.Ticker

	prg, lamp         handle.Handle
	diffuse, specular handle.Handle
	vbo               uint32
	cubeVAO, lightVAO uint32

	directional bool
	captured    bool
	filter      int
}

func (l *lights) Init(w app.Window) error {
	cfg := l.cfg
	l.c = tinyngine.New(w.GL(),
		tinyngine.Logger(l.log),
		tinyngine.ErrorPolicy(cfg.GL.ErrorPolicy),
		tinyngine.TextureCapacity(cfg.GL.TextureCapacity),
		tinyngine.ProgramCapacity(cfg.GL.ProgramCapacity),
		tinyngine.Input(l.keys))
	l.cam = camera.New(
		camera.Position(cfg.Camera.Position),
		camera.Speed(cfg.Camera.Speed),
		camera.Sensitivity(cfg.Camera.Sensitivity),
		camera.FOV(cfg.Camera.FOV))
	l.fps.Every = 5 * time.Second
	l.directional = true
	l.captured = true

	// Retrieve assets: missing textures are replaced by generated ones below.
	if err := assets.Wait(l.preload); err != nil {
		l.log.Warn("preload", zap.Error(err))
	}

	var err error
	if l.prg, err = l.c.ProgramFromAssets(l.mgr, "lights.vs", "lights.fs"); err != nil {
		return err
	}
	if l.lamp, err = l.c.ProgramFromAssets(l.mgr, "lamp.vs", "lamp.fs"); err != nil {
		return err
	}
	if l.diffuse, err = l.texture("container2.png", false); err != nil {
		return err
	}
	if l.specular, err = l.texture("container2_specular.png", true); err != nil {
		return err
	}

	l.bindKeys(w)
	l.initBuffers()
	gogl.Enable(gogl.DEPTH_TEST)
	return nil
}

func (l *lights) texture(name string, specular bool) (handle.Handle, error) {
	h, err := l.c.TextureFromAsset(l.mgr, name, texture.RGB8)
	if err == nil {
		return h, nil
	}
	l.log.Info("using generated texture", zap.String("name", name))
	h, err = l.c.Textures.CreateFromImage(containerImage(256, specular), texture.RGB8)
	return h, errors.Wrap(err, name)
}

func (l *lights) bindKeys(w app.Window) {
	l.keys.Bind(input.Press, input.KeyEscape, w.SetShouldClose)
	l.keys.Bind(input.Press, input.Key1, func() {
		l.log.Info("select light type", zap.String("type", "directional"))
		l.directional = true
	})
	l.keys.Bind(input.Press, input.Key2, func() {
		l.log.Info("select light type", zap.String("type", "point"))
		l.directional = false
	})
	l.keys.Bind(input.Press, input.KeyF, func() {
		l.filter = (l.filter + 1) % len(filterings)
		f := filterings[l.filter]
		l.c.Textures.SetFiltering(l.diffuse, f)
		l.c.Textures.SetFiltering(l.specular, f)
		l.log.Info("texture filtering", zap.Stringer("mode", f))
	})
	l.keys.Bind(input.Press, input.KeyC, func() {
		l.captured = !l.captured
		w.CaptureCursor(l.captured)
	})
}

func (l *lights) initBuffers() {
	gogl.GenBuffers(1, &l.vbo)
	gogl.BindBuffer(gogl.ARRAY_BUFFER, l.vbo)
	gogl.BufferData(gogl.ARRAY_BUFFER, len(cubeVertices)*4, gogl.Ptr(cubeVertices), gogl.STATIC_DRAW)

	const stride = 8 * 4
	gogl.GenVertexArrays(1, &l.cubeVAO)
	gogl.BindVertexArray(l.cubeVAO)
	gogl.VertexAttribPointerWithOffset(0, 3, gogl.FLOAT, false, stride, 0)
	gogl.EnableVertexAttribArray(0)
	gogl.VertexAttribPointerWithOffset(1, 3, gogl.FLOAT, false, stride, 3*4)
	gogl.EnableVertexAttribArray(1)
	gogl.VertexAttribPointerWithOffset(2, 2, gogl.FLOAT, false, stride, 6*4)
	gogl.EnableVertexAttribArray(2)

	gogl.GenVertexArrays(1, &l.lightVAO)
	gogl.BindVertexArray(l.lightVAO)
	gogl.VertexAttribPointerWithOffset(0, 3, gogl.FLOAT, false, stride, 0)
	gogl.EnableVertexAttribArray(0)

	gogl.BindVertexArray(0)
	gogl.BindBuffer(gogl.ARRAY_BUFFER, 0)
}

func (l *lights) Terminate() error {
	gogl.DeleteVertexArrays(1, &l.lightVAO)
	gogl.DeleteVertexArrays(1, &l.cubeVAO)
	gogl.DeleteBuffers(1, &l.vbo)
	l.c.Close()
	if l.watch != nil {
		l.watch.Close()
	}
	return l.mgr.Close()
}

func (l *lights) OnCursor(w app.Window, dx, dy float32) {
	if l.captured {
		l.cam.ProcessMouse(dx, dy, true)
	}
}

func (l *lights) OnScroll(w app.Window, dx, dy float32) {
	l.cam.ProcessMouseScroll(dy)
}

func (l *lights) OnUpdate(w app.Window, dt time.Duration) {
	if l.fps.Tick(dt) {
		l.log.Info("frame rate", zap.Float64("fps", l.fps.AveragePerSecond()), zap.Duration("avg", l.fps.Average()))
	}
	l.reloadChanged()

	s := float32(dt.Seconds())
	for _, m := range [...]struct {
		k input.Key
		m camera.Move
	}{
		{input.KeyW, camera.Forward},
		{input.KeyS, camera.Backward},
		{input.KeyA, camera.Left},
		{input.KeyD, camera.Right},
	} {
		if w.Pressed(m.k) {
			l.cam.ProcessKeyboard(m.m, s)
		}
	}
}

func (l *lights) reloadChanged() {
	if l.watch == nil {
		return
	}
	for {
		select {
		case name, ok := <-l.watch.Changes():
			if !ok {
				l.watch = nil
				return
			}
			if n, err := l.c.Refresh(l.mgr, name); n > 0 || err != nil {
				l.log.Info("refresh", zap.String("file", name), zap.Int("programs", n), zap.Error(err))
			}
		default:
			return
		}
	}
}

func (l *lights) OnDraw(w app.Window) {
	gogl.ClearColor(0.2, 0.3, 0.3, 1.0)
	gogl.Clear(gogl.COLOR_BUFFER_BIT | gogl.DEPTH_BUFFER_BIT)

	var (
		c    = l.c
		prg  = l.prg
		view = l.cam.ViewMatrix()
		proj = l.cam.Projection(w.Aspect(), 0.1, 100)
	)

	c.Textures.Bind(l.diffuse, 0)
	c.Textures.Bind(l.specular, 1)

	c.Programs.Use(prg)
	c.Programs.SetInt(prg, "u_material.diffuse", 0)
	c.Programs.SetInt(prg, "u_material.specular", 1)
	c.Programs.SetFloat(prg, "u_material.shininess", 32)
	if l.directional {
		c.Programs.SetVec4(prg, "u_light.direction", lightDirection)
	} else {
		c.Programs.SetVec4(prg, "u_light.direction", lightPosition)
	}
	c.Programs.SetVec3(prg, "u_light.ambient", mgl32.Vec3{0.01, 0.01, 0.01})
	c.Programs.SetVec3(prg, "u_light.diffuse", mgl32.Vec3{1, 1, 0.8})
	c.Programs.SetVec3(prg, "u_light.specular", mgl32.Vec3{1, 1, 1})
	c.Programs.SetFloat(prg, "u_light.constant", 1)
	c.Programs.SetFloat(prg, "u_light.linear", 0.09)
	c.Programs.SetFloat(prg, "u_light.quadratic", 0.032)
	c.Programs.SetVec3(prg, "u_viewPosition", l.cam.Position())

	gogl.BindVertexArray(l.cubeVAO)
	axis := mgl32.Vec3{1, 0.3, 0.5}.Normalize()
	for i, p := range cubePositions {
		model := mgl32.Translate3D(p[0], p[1], p[2]).Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(20*float32(i)), axis))
		c.Programs.SetMat4(prg, "u_model", model)
		c.Programs.SetMat4(prg, "u_modelViewProj", proj.Mul4(view).Mul4(model))
		gogl.DrawArrays(gogl.TRIANGLES, 0, 36)
	}

	if !l.directional {
		model := mgl32.Translate3D(lightPosition[0], lightPosition[1], lightPosition[2]).Mul4(mgl32.Scale3D(0.2, 0.2, 0.2))
		c.Programs.SetMat4(l.lamp, "u_modelViewProj", proj.Mul4(view).Mul4(model))
		c.Programs.SetVec3(l.lamp, "u_color", mgl32.Vec3{1, 1, 0.8})
		gogl.BindVertexArray(l.lightVAO)
		gogl.DrawArrays(gogl.TRIANGLES, 0, 36)
	}
	gogl.BindVertexArray(0)
}
