package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/Carmen-Shannon/oxy-showcase/engine"
	"github.com/Carmen-Shannon/oxy-showcase/engine/loader"
	"github.com/Carmen-Shannon/oxy-showcase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-showcase/engine/scene"
	"github.com/Carmen-Shannon/oxy-showcase/engine/window"
)

// GLFW calls must come from the main thread.
func init() {
	runtime.LockOSThread()
}

type options struct {
	width, height int
	title         string
	font          string
	hdri          string
	sprite        string
	model         string
	assets        string
	seed          uint64
	vsync         bool
	msaa          uint
	profile       bool
	logLevel      string
	software      bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("showcase", flag.ContinueOnError)
	fs.IntVar(&o.width, "width", 1280, "window width in pixels")
	fs.IntVar(&o.height, "height", 720, "window height in pixels")
	fs.StringVar(&o.title, "title", "oxy showcase", "window title")
	fs.StringVar(&o.font, "font", "", "TrueType/OpenType font for the name text (default: embedded Go Regular)")
	fs.StringVar(&o.hdri, "hdri", "", "Radiance .hdr environment map for the background")
	fs.StringVar(&o.sprite, "sprite", "", "particle sprite image")
	fs.StringVar(&o.model, "model", "", "glTF or GLB model to place in the scene")
	fs.StringVar(&o.assets, "assets", "", "base directory for relative asset paths")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed for particles and boxes (0 = random)")
	fs.BoolVar(&o.vsync, "vsync", true, "wait for vertical blank when presenting")
	fs.UintVar(&o.msaa, "msaa", 4, "MSAA sample count: 1, 4, 8 or 16")
	fs.BoolVar(&o.profile, "profile", false, "log FPS and memory statistics every second")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.BoolVar(&o.software, "software", false, "force the software fallback adapter")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	switch o.msaa {
	case 1, 4, 8, 16:
	default:
		return o, fmt.Errorf("invalid -msaa %d: must be 1, 4, 8 or 16", o.msaa)
	}
	return o, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("invalid -log-level %q: %w", s, err)
	}
	return level, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	level, err := parseLevel(o.logLevel)
	if err != nil {
		return err
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	sceneOptions := []scene.SceneBuilderOption{
		scene.WithFontPath(o.font),
		scene.WithBackground(o.hdri),
		scene.WithSprite(o.sprite),
		scene.WithModel(o.model),
	}
	if o.seed != 0 {
		sceneOptions = append(sceneOptions, scene.WithSeed(o.seed))
	}

	app := engine.NewApp(
		engine.WithProfiling(o.profile),
		engine.WithLoader(loader.NewLoader(loader.WithBaseDir(o.assets))),
		engine.WithSceneOptions(sceneOptions...),
		engine.WithRendererOptions(
			renderer.WithVSync(o.vsync),
			renderer.WithMSAA(renderer.MSAASampleCount(o.msaa)),
			renderer.WithForceSoftwareRenderer(o.software),
		),
	)

	win, err := window.NewWindow(
		window.WithTitle(o.title),
		window.WithSize(o.width, o.height),
	)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	if err := app.Init(win); err != nil {
		_ = win.Close()
		return err
	}
	return app.Run()
}
