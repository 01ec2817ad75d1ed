//go:build ebiten

package main

import (
	"errors"
	"fmt"
	"os"

	"dla/internal/app"
	"dla/internal/core"
	_ "dla/internal/dla"
	"dla/internal/logging"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(pflag.CommandLine)
	logLevel := pflag.String("log-level", "info", "log level: warn, info, debug, trace")
	pflag.Parse()
	log := logging.NewLogger(*logLevel, os.Stderr)

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Error("unknown sim", "sim", cfg.Sim, "available", core.SimNames())
		os.Exit(2)
	}
	sim, err := factory(cfg.SimOptions())
	if err != nil {
		log.Error("building sim", "sim", cfg.Sim, "err", err)
		os.Exit(2)
	}
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg)
	w, h := game.WindowSize()

	ebiten.SetWindowTitle(fmt.Sprintf("dla - %s k=%g", sim.Name(), cfg.K))
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	log.Info("viewer started", "size", cfg.Size, "k", cfg.K, "seed", cfg.Seed)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}
