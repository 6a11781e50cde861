package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/globe-explorer/api"
	"github.com/lixenwraith/globe-explorer/app"
	"github.com/lixenwraith/globe-explorer/audio"
	"github.com/lixenwraith/globe-explorer/config"
	"github.com/lixenwraith/globe-explorer/core"
	"github.com/lixenwraith/globe-explorer/logging"
	"github.com/lixenwraith/globe-explorer/sched"
	"github.com/lixenwraith/globe-explorer/snapshot"
	"github.com/lixenwraith/globe-explorer/stub"
)

var (
	debugFlag   = flag.Bool("debug", false, "Enable debug logging to the log directory")
	configFlag  = flag.String("config", ".", "Directory holding globe.json")
	envFlag     = flag.String("env", ".env", "Env file loaded before GLOBE_* variables")
	apiFlag     = flag.String("api", "", "Countries API base URL, overrides the config")
	offlineFlag = flag.Bool("offline", false, "Serve the embedded fixture instead of calling the API")
	fixtureFlag = flag.String("fixture", "", "Fixture file used with -offline instead of the embedded one")
	statusFlag  = flag.Bool("status", false, "Show the status line")
	muteFlag    = flag.Bool("mute", false, "Start with cues disabled")
)

func main() {
	// Restore the terminal if anything below panics on the main goroutine
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "globe-explorer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag, *envFlag)
	if err != nil {
		return err
	}
	if *apiFlag != "" {
		cfg.API.BaseURL = *apiFlag
	}
	if *offlineFlag {
		cfg.API.Offline = true
	}
	if *statusFlag {
		cfg.UI.StatusLine = true
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}
	if *debugFlag {
		cfg.Log.Enabled = true
		cfg.Log.Level = "debug"
	}

	log, logFile, err := logging.Setup(logging.Options{
		Enabled: cfg.Log.Enabled,
		Level:   cfg.Log.Level,
		Dir:     cfg.Log.Dir,
		MaxSize: int64(cfg.Log.MaxSizeMB) << 20,
	})
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	src, closeStore, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	core.SetCrashScreen(screen)
	defer func() {
		core.SetCrashScreen(nil)
		screen.Fini()
	}()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	loop := sched.NewLoop(cfg.UI.FrameInterval)
	loop.SetCrashHandler(core.HandleCrash)

	player := audio.NewPlayer(audio.Options{Enabled: cfg.Audio.Enabled, Volume: cfg.Audio.Volume}, log)
	defer player.Close()

	explorer := app.New(loop, screen, app.Options{
		Config: cfg,
		Source: src,
		Origin: func() string { return string(src.Origin()) },
		Player: player,
		Spawn:  core.Go,
		OnQuit: loop.Stop,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop.Post(explorer.Start)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			loop.Post(func() { explorer.HandleEvent(ev) })
		}
	})

	log.Info().Bool("offline", cfg.API.Offline).Str("api", cfg.API.BaseURL).Msg("Globe explorer started")
	err = loop.Run(ctx)
	explorer.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("Globe explorer stopped")
	return nil
}

// openSource builds the data source: API or fixture, read through the snapshot store when enabled
func openSource(cfg config.Config, log zerolog.Logger) (*snapshot.Source, func(), error) {
	var remote snapshot.Remote
	if cfg.API.Offline {
		f, err := loadFixture(*fixtureFlag)
		if err != nil {
			return nil, nil, err
		}
		remote = app.FixtureSource{Fixture: f}
	} else {
		client := api.New(cfg.API.BaseURL, cfg.API.Timeout)
		core.Go(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := client.Healthcheck(ctx); err != nil {
				log.Warn().Err(err).Str("api", client.BaseURL()).Msg("Countries API unreachable")
			}
		})
		remote = client
	}

	var store *snapshot.Store
	if cfg.Snapshot.Enabled {
		s, err := snapshot.Open(cfg.Snapshot.Path)
		if err != nil {
			log.Warn().Err(err).Msg("Snapshot store unavailable, running without fallback")
		} else {
			store = s
			pruned, err := store.PruneDetails(context.Background(), time.Now().Add(-cfg.Snapshot.DetailTTL))
			if err != nil {
				log.Warn().Err(err).Msg("Failed to prune stored details")
			} else if pruned > 0 {
				log.Info().Int64("pruned", pruned).Msg("Expired details removed")
			}
		}
	}

	closeStore := func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close snapshot store")
		}
	}
	return snapshot.NewSource(remote, store, log), closeStore, nil
}

func loadFixture(path string) (stub.Fixture, error) {
	if path == "" {
		return stub.Default()
	}
	return stub.Load(path)
}
