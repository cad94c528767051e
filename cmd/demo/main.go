// Command demo renders textured cubes lit by a directional or a point light.
//
// Keys: WASD move, mouse look, scroll zoom, 1 directional light, 2 point
// light, F cycle texture filtering, C toggle cursor capture, Escape quit.
// Shader files are reloaded when they change on disk.
//
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/db47h/ofs"
	"github.com/db47h/tinyngine/app"
	"github.com/db47h/tinyngine/assets"
	"github.com/db47h/tinyngine/config"
	"github.com/db47h/tinyngine/gl"
	"github.com/db47h/tinyngine/input"
	"go.uber.org/zap"
)

var (
	cfgFile = flag.String("config", "", "configuration file (.toml, .yaml)")
	vsync   = flag.Bool("v", true, "enable vsync")
	policy  = gl.Log
)

func init() {
	flag.TextVar(&policy, "policy", gl.Log, "GL error policy: ignore, log or panic")
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	cfg.Window.Title = "tinyngine - lights"
	cfg.Assets.Dirs = []string{"assets", "cmd/demo/assets"}
	cfg.Assets.Watch = true
	if *cfgFile != "" {
		var err error
		if cfg, err = config.LoadFile(*cfgFile); err != nil {
			return nil, err
		}
	}
	// command line flags override the configuration file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			cfg.Window.VSync = *vsync
		case "policy":
			cfg.GL.ErrorPolicy = policy
		}
	})
	return cfg, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := cfg.Log.Build()
	if err != nil {
		return err
	}
	defer log.Sync()

	// preload assets
	var ovl ofs.Overlay
	if err := ovl.Add(false, cfg.Assets.Dirs...); err != nil {
		return err
	}
	mgr := assets.NewManager(&ovl,
		assets.ShaderPath(cfg.Assets.ShaderPath),
		assets.TexturePath(cfg.Assets.TexturePath),
		assets.Logger(log.Named("assets")))
	rc, n := mgr.Preload([]assets.Asset{
		assets.Shader("lights.vs"),
		assets.Shader("lights.fs"),
		assets.Shader("lamp.vs"),
		assets.Shader("lamp.fs"),
		assets.Image("container2.png"),
		assets.Image("container2_specular.png"),
	}, false)
	log.Debug("preloading assets", zap.Int("count", n))

	var watch *assets.Watcher
	if cfg.Assets.Watch {
		if watch, err = assets.NewWatcher(log.Named("watch"), cfg.Assets.Dirs...); err != nil {
			log.Warn("shader hot reload disabled", zap.Error(err))
		}
	}

	keys := input.NewManager(input.Logger(log.Named("input")))
	opts := []app.WindowOption{
		app.Title(cfg.Window.Title),
		app.Size(cfg.Window.Width, cfg.Window.Height),
		app.VSync(cfg.Window.VSync),
		app.GLVersion(cfg.GL.Major, cfg.GL.Minor),
		app.CaptureCursor(),
		app.Input(keys),
		app.Logger(log.Named("app")),
	}
	if cfg.Window.FullScreen {
		opts = append(opts, app.FullScreen())
	}
	return app.Main(&lights{
		cfg:     cfg,
		log:     log,
		keys:    keys,
		mgr:     mgr,
		preload: rc,
		watch:   watch,
	}, opts...)
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
