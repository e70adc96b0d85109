package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/gravitypile/common"
	"github.com/milk9111/gravitypile/config"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and overlay")
	configPath := flag.String("config", "", "tuning file (yaml), config/tuning.yaml or embedded when empty")
	feedPath := flag.String("feed", "", "feed file (yaml), reloaded on change; embedded feed when empty")
	flag.Parse()

	level := log.InfoLevel
	if *debug {
		level = log.DebugLevel
	}
	logger := common.NewLogger(os.Stderr, level)

	tuning, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load tuning", "err", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(tuning.Host.Width, tuning.Host.Height)
	ebiten.SetWindowTitle(tuning.Host.Title)
	ebiten.SetTPS(tuning.Physics.StepRate)

	game, err := NewGame(tuning, *feedPath, *debug, logger)
	if err != nil {
		logger.Fatal("start", "err", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run", "err", err)
	}
}
