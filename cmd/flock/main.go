package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/viewer"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "", "json or toml configuration file")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one")
	debug := flag.Bool("debug", false, "log actor activity")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfigFile(*configFile); err != nil {
			log.Fatal(err)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	var logger golog.Logger = golog.DiscardLogger
	if *debug {
		logger = golog.DefaultLogger
	}

	ctx := context.Background()
	system, err := actor.NewActorSystem("FlockWorld",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		log.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer system.Stop(ctx)

	game, err := viewer.NewGame(ctx, cfg, system)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids: flocking")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
