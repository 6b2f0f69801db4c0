// Package cli implements the looper command line.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "looper",
	Short: "Record and replay MIDI loops",
	Long: `Looper records the messages arriving on a MIDI input into loops and
replays them cyclically to one or more MIDI outputs. Loops can be overdubbed
on top of each other and undone or redone while the others keep playing.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("looper version {{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
