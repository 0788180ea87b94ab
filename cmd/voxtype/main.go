package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.design/x/hotkey/mainthread"

	"github.com/emmett/voxtype/internal/app"
	"github.com/emmett/voxtype/internal/config"
	"github.com/emmett/voxtype/internal/input"
	"github.com/emmett/voxtype/internal/logger"
	"github.com/emmett/voxtype/internal/models"
	"github.com/emmett/voxtype/internal/output"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

var (
	configFile   = flag.String("config", "", "Path to configuration file (default: ~/.voxtype.yaml or /etc/voxtype/config.yaml)")
	listModels   = flag.Bool("list-models", false, "List known models, install status and the current choice")
	listDevices  = flag.Bool("list-devices", false, "List all available audio input devices")
	outputMode   = flag.String("mode", "", "Output mode: asr (raw transcript) or llm (refined)")
	hotkeySpec   = flag.String("hotkey", "", "Push-to-talk key, e.g. fn, ctrl+shift+space, keycode:63")
	asrModel     = flag.String("asr", "", "ASR model: auto, tiny, base, small, medium or a file name")
	llmModel     = flag.String("llm", "", "LLM model: auto, qwen0.5, qwen1.5, qwen3, qwen7 or a file name")
	saveSettings = flag.Bool("save", false, "Write -mode/-hotkey/-asr/-llm to the settings file and exit")
	outputFormat = flag.String("format", "console", "Status output format: console or json")
	logLevel     = flag.String("log-level", "", "Log level: trace, debug, info, warn, error, off")
	showVersion  = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("voxtype v%s\n", Version)
		fmt.Printf("  Commit:  %s\n", GitCommit)
		fmt.Printf("  Branch:  %s\n", GitBranch)
		fmt.Printf("  Built:   %s\n", BuildTime)
		os.Exit(0)
	}

	cfg, err := config.LoadWithFallback(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	initLogger(cfg)

	if *listDevices {
		if err := app.NewDeviceManager().ListDevices(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	store := config.NewStore(cfg.Paths.AppConfig)

	if *listModels {
		settings, _, err := store.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := app.NewModelManager(cfg.Paths.ModelDir).ListModels(os.Stdout, settings); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if settingsFlagsSet() {
		if err := updateSettings(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("voxtype v%s (commit: %s, branch: %s, built: %s)\n", Version, GitCommit, GitBranch, BuildTime)

	// Hotkey registration and input synthesis need the OS main thread
	code := 0
	mainthread.Init(func() {
		if err := run(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			code = 1
		}
	})
	os.Exit(code)
}

func initLogger(cfg *config.Config) {
	opts := logger.FromEnv()
	opts.Service = "voxtype"
	if cfg.Log.Level != "" {
		opts.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		opts.Format = cfg.Log.Format
	}
	if *logLevel != "" {
		opts.Level = *logLevel
	}
	opts.Writer = os.Stderr
	logger.Init(opts)
}

func settingsFlagsSet() bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode", "hotkey", "asr", "llm", "save":
			set = true
		}
	})
	return set
}

// updateSettings applies the settings flags; without -save it only prints
// the result
func updateSettings(store *config.Store) error {
	settings, warnings, err := store.Load()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if *outputMode != "" {
		if settings.OutputMode, err = config.ParseOutputMode(*outputMode); err != nil {
			return err
		}
	}
	if *hotkeySpec != "" {
		if settings.Hotkey, err = input.ParseSpec(*hotkeySpec); err != nil {
			return err
		}
	}
	if *asrModel != "" {
		if settings.ASRModel, err = models.ParseChoice(models.KindASR, *asrModel); err != nil {
			return err
		}
	}
	if *llmModel != "" {
		if settings.LLMModel, err = models.ParseChoice(models.KindLLM, *llmModel); err != nil {
			return err
		}
	}

	if !*saveSettings {
		fmt.Println("Settings (not saved, add -save to write them):")
		return settings.Encode(os.Stdout)
	}
	if err := store.Save(settings); err != nil {
		return err
	}
	fmt.Printf("Saved settings to %s\n", store.Path())
	return nil
}

func run(cfg *config.Config) error {
	var sink output.Sink
	switch *outputFormat {
	case "json":
		sink = output.NewJSONFormatter(os.Stdout)
	case "console":
		sink = output.DefaultConsoleOutput()
	default:
		return fmt.Errorf("unknown output format: %s", *outputFormat)
	}
	if cfg.Notify.Desktop {
		sink = output.Multi{sink, output.NewNotifier("voxtype")}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Push-to-talk mode. Hold the hotkey to dictate, release to insert.")
	fmt.Println("Press Ctrl+C to exit.")

	ptt := app.NewPTTTranscriber(app.PTTConfig{Config: cfg, Sink: sink})
	return ptt.Run(ctx)
}
