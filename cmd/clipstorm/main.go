// Package main is the entry point for the clipstorm timeline editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/clipstorm/internal/asset"
	"github.com/dshills/clipstorm/internal/config"
	"github.com/dshills/clipstorm/internal/engine"
	"github.com/dshills/clipstorm/internal/project"
	"github.com/dshills/clipstorm/internal/script"
	"github.com/dshills/clipstorm/internal/ui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath  string
	projectPath string
	scriptPath  string
	fps         int
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	settings, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.fps > 0 {
		settings.FPS = opts.fps
		if err := settings.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	library := asset.NewLibrary()
	engOpts := append(settings.EngineOptions(), engine.WithResolver(library))

	var eng *engine.Engine
	if opts.projectPath != "" {
		doc, err := project.Load(opts.projectPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if doc.FPS > 0 {
			engOpts = append(engOpts, engine.WithFPS(doc.FPS))
		}
		model, err := doc.ToModel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		eng = engine.NewFromModel(model, engOpts...)
	} else {
		eng = engine.New(engOpts...)
	}

	// Live-reload zoom and snap settings while the editor runs.
	if opts.configPath != "" {
		watcher, err := config.Watch(opts.configPath, func(s config.Settings) {
			eng.SetZoom(s.ZoomPxPerSecond)
		})
		if err == nil {
			defer watcher.Close()
		}
	}

	if opts.scriptPath != "" {
		runner := script.NewRunner(eng, library)
		err := runner.RunFile(opts.scriptPath)
		runner.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if opts.projectPath != "" {
			if err := saveProject(opts.projectPath, eng); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
		}
		return 0
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init terminal: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		screen.Fini()
		os.Exit(1)
	}()

	var uiOpts []ui.Option
	if opts.projectPath != "" {
		uiOpts = append(uiOpts, ui.WithSave(func(m *engine.Model) error {
			d := project.FromModel(m, eng.FPS())
			d.Aspect = settings.Aspect
			d.Width = settings.Width
			d.Height = settings.Height
			return project.Save(opts.projectPath, d)
		}))
	}

	app := ui.New(eng, screen, uiOpts...)
	runErr := app.Run()
	screen.Fini()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 1
	}
	return 0
}

func saveProject(path string, eng *engine.Engine) error {
	return project.Save(path, project.FromModel(eng.Snapshot(), eng.FPS()))
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", defaultConfigPath(), "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", defaultConfigPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Run a Lua script against the project and exit")
	flag.IntVar(&opts.fps, "fps", 0, "Override the project frame rate")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Clipstorm - terminal timeline editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: clipstorm [options] [project file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  clipstorm                         Start with an empty timeline\n")
		fmt.Fprintf(os.Stderr, "  clipstorm edit.clipstorm          Open a project\n")
		fmt.Fprintf(os.Stderr, "  clipstorm -script cut.lua e.json  Apply a script and save\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Clipstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if args := flag.Args(); len(args) > 0 {
		opts.projectPath = args[0]
	}
	return opts
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return dir + "/clipstorm/clipstorm.toml"
}
