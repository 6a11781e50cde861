package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lixenwraith/globe-explorer/logging"
	"github.com/lixenwraith/globe-explorer/stub"
)

var (
	addrFlag    = flag.String("addr", "", "Listen address, defaults to :$PORT or :8787")
	fixtureFlag = flag.String("fixture", "", "Fixture file, defaults to the embedded fixture")
	latencyFlag = flag.Duration("latency", 0, "Delay added to every detail response")
	originsFlag = flag.String("origins", "", "Comma separated CORS origins, defaults to any")
	levelFlag   = flag.String("level", "info", "Log level")
)

func main() {
	flag.Parse()

	log := logging.New(os.Stderr, logging.ParseLevel(*levelFlag))

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	addr := *addrFlag
	if addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8787"
		}
		addr = ":" + port
	}

	var (
		f   stub.Fixture
		err error
	)
	if *fixtureFlag != "" {
		f, err = stub.Load(*fixtureFlag)
	} else {
		f, err = stub.Default()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load fixture")
	}

	var origins []string
	if *originsFlag != "" {
		for _, o := range strings.Split(*originsFlag, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      stub.NewRouter(f, stub.Options{DetailLatency: *latencyFlag, AllowedOrigins: origins}, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second + *latencyFlag,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", addr).Int("countries", len(f.Countries)).Msg("Stub server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	<-shutdown
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	log.Info().Msg("Shutdown complete")
}
