package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/game"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/scores"
)

var (
	flagLevel   string
	flagConfig  string
	flagMonitor int
	flagMute    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a level",
	Long: `Start the level. Tuning is read from ./prefabs/tuning.yaml when present,
otherwise from the built-in defaults; --config points at another file.

Examples:
  platformer play
  platformer play --level level-1 --mute`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagLevel, "level", levels.DefaultLevel, "Level name in levels/ (.json optional) or path to a Tiled JSON file")
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a tuning YAML file")
	cmd.Flags().IntVar(&flagMonitor, "monitor", -1, "Monitor index to open the window on")
	cmd.Flags().BoolVar(&flagMute, "mute", false, "Do not load or play sound effects")
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	opts := game.Options{
		Level:      flagLevel,
		ConfigPath: flagConfig,
		Debug:      flagDebug,
		Mute:       flagMute,
		Logger:     logger,
	}

	store, err := scores.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	} else {
		defer store.Close()
		opts.Store = store
	}

	if flagMonitor >= 0 {
		monitors := ebiten.AppendMonitors(nil)
		if flagMonitor < len(monitors) {
			ebiten.SetMonitor(monitors[flagMonitor])
		} else {
			logger.Warn("no such monitor", "index", flagMonitor, "available", len(monitors))
		}
	}

	g, err := game.New(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(common.ScreenWidth, common.ScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("platformer")
	ebiten.SetTPS(g.TPS())

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
