// Command sandbox opens a window and exercises the GL backend: a 2D quad
// batch with an offscreen target and a lit 3D mesh view.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hubastard/es2/engine/assets"
	"github.com/hubastard/es2/engine/core"
	glbackend "github.com/hubastard/es2/engine/gfx/gl"
	"github.com/hubastard/es2/engine/gfx/renderer2d"
	"github.com/hubastard/es2/engine/platform"
	"github.com/hubastard/es2/engine/profiler"
)

type App struct {
	r2d        *renderer2d.Renderer2D
	debugLayer *LayerDebug
}

func (a *App) OnStart(e *core.Engine) {
	profiler.Init(1 << 16)

	vs, err := assets.LoadShader("quad.vert")
	if err == nil {
		var fs string
		if fs, err = assets.LoadShader("quad.frag"); err == nil {
			a.r2d, err = renderer2d.New(e.GL, vs, fs, e.Config.MaxQuads)
		}
	}
	if err != nil {
		slog.Error("2D renderer unavailable", "err", err)
		e.Window.RequestClose()
		return
	}

	e.Layers.PushAttach(e, &Layer3D{})
	e.Layers.PushAttach(e, &Layer2D{r2d: a.r2d})
	a.debugLayer = &LayerDebug{r2d: a.r2d}
	e.Layers.PushAttach(e, a.debugLayer)
}

func (a *App) OnUpdate(e *core.Engine, dt float64)    {}
func (a *App) OnRender(e *core.Engine, alpha float64) {}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyEscape {
		e.Window.RequestClose()
	}
}

func (a *App) OnShutdown(e *core.Engine) {
	if a.r2d != nil {
		a.r2d.Dispose()
	}
}

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	widthFlag = &cli.IntFlag{
		Name:  "width",
		Usage: "window width in pixels",
	}
	heightFlag = &cli.IntFlag{
		Name:  "height",
		Usage: "window height in pixels",
	}
	vsyncFlag = &cli.BoolFlag{
		Name:  "vsync",
		Usage: "wait for vertical sync",
		Value: true,
	}
	esFlag = &cli.BoolFlag{
		Name:  "es",
		Usage: "treat the context as GLES (no polygon mode, RGBA readback)",
	}
	disableProcFlag = &cli.StringSliceFlag{
		Name:  "disable-proc",
		Usage: "leave a GL entry point unresolved, e.g. glGenFramebuffers (repeatable)",
	}
	maxQuadsFlag = &cli.IntFlag{
		Name:  "max-quads",
		Usage: "quads per 2D batch",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log.level",
		Usage: "log level (debug, info, warn, error)",
	}
	framesFlag = &cli.IntFlag{
		Name:  "frames",
		Usage: "exit after this many frames (0 = run until closed)",
	}

	runFlags = []cli.Flag{
		configFlag,
		widthFlag,
		heightFlag,
		vsyncFlag,
		esFlag,
		disableProcFlag,
		maxQuadsFlag,
		logLevelFlag,
		framesFlag,
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:   "sandbox",
		Usage:  "GL backend sandbox",
		Flags:  runFlags,
		Action: run,
		Commands: []*cli.Command{
			{
				Name:   "dumpconfig",
				Usage:  "print the effective configuration as TOML",
				Flags:  runFlags,
				Action: dumpConfig,
			},
			{
				Name:   "symbols",
				Usage:  "list the optional GL entry points the backend resolves",
				Action: listSymbols,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// makeConfig loads the config file, if any, and applies the flags set on
// the command line over it.
func makeConfig(ctx *cli.Context) (core.Config, error) {
	cfg := core.DefaultConfig()
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = core.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet(widthFlag.Name) {
		cfg.Width = ctx.Int(widthFlag.Name)
	}
	if ctx.IsSet(heightFlag.Name) {
		cfg.Height = ctx.Int(heightFlag.Name)
	}
	if ctx.IsSet(vsyncFlag.Name) {
		cfg.VSync = ctx.Bool(vsyncFlag.Name)
	}
	if ctx.IsSet(esFlag.Name) {
		cfg.ES = ctx.Bool(esFlag.Name)
	}
	if ctx.IsSet(disableProcFlag.Name) {
		cfg.DisableProcs = append(cfg.DisableProcs, ctx.StringSlice(disableProcFlag.Name)...)
	}
	if ctx.IsSet(maxQuadsFlag.Name) {
		cfg.MaxQuads = ctx.Int(maxQuadsFlag.Name)
	}
	if ctx.IsSet(logLevelFlag.Name) {
		cfg.LogLevel = ctx.String(logLevelFlag.Name)
	}
	if ctx.IsSet(framesFlag.Name) {
		cfg.MaxFrames = ctx.Int(framesFlag.Name)
	}
	return cfg, cfg.Validate()
}

func run(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	glbackend.SetLogger(logger.With("component", "gl"))

	return core.Run(&App{}, cfg, platform.NewWindow, platform.NewContext)
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	return cfg.Write(ctx.App.Writer)
}

func listSymbols(ctx *cli.Context) error {
	for _, sym := range glbackend.Symbols() {
		fmt.Fprintln(ctx.App.Writer, sym)
	}
	return nil
}
