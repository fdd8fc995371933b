// platformer is a one-level gem/key/door platformer.
//
// Usage:
//
//	platformer                 - Play the default level
//	platformer --level level-1 - Play a level by name
//	platformer scores          - Show recorded runs
//
// Global flags:
//
//	--db <path>  - Set database path (default: ~/.platformer/scores.db)
//	--debug      - Debug logging, collider outlines and tuning hot reload
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/milk9111/platformer/scores"
)

var (
	flagDBPath string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "platformer",
	Short: "Collect gems, find the key, open the door and reach the exit",
	Long: `platformer runs a single side-scrolling level.

Controls:
  Left/Right, A/D  - Move
  Up, W            - Jump
  Space            - Start, and play again from the end screen

Examples:
  platformer
  platformer --config ./tuning.yaml --debug
  platformer scores --limit 5`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", scores.DefaultPath, "Path to scores database")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug mode")

	addPlayFlags(rootCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
}

func newLogger() *log.Logger {
	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "platformer",
		Level:           level,
	})
}
