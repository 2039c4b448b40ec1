package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/lao-tseu-is-alive/go-boids-flock/internal/session"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "", "json or toml configuration file")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one")
	debug := flag.Bool("debug", false, "log every run")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	// statistics runs use a looser speed cap than the viewer
	cfg.MaxSpeed = 500
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfigFile(*configFile); err != nil {
			log.Fatal(err)
		}
	}
	if *seed == 0 {
		*seed = cfg.Seed
	}

	var logger golog.Logger = golog.DiscardLogger
	if *debug {
		logger = golog.DefaultLogger
	}

	s, err := session.New(cfg, logger, *seed)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := s.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
