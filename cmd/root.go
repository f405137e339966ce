// Package cmd provides command-line interface functionality for RecomTools.
// RecomTools is a collection of utilities for extracting game files from
// Kingdom Hearts Re:Chain of Memories for PlayStation 2.
package cmd

import (
	"fmt"
	"os"

	"github.com/hansbonini/recomtools/pkg/common"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// It provides the main entry point for the RecomTools application.
var rootCmd = &cobra.Command{
	Use:   "recomtools",
	Short: "Tools for extracting Re:Chain of Memories PS2 game files",
	Long: `RecomTools - A collection of utilities for extracting game files from
Kingdom Hearts Re:Chain of Memories for PlayStation 2.

Currently supports:
  - Disc images (list and extract the .DAT container, .iso or .bin)
  - Packed resource files (unpack flat resource tables)
  - Compressed blobs (decompress a single file)

Examples:
  recomtools iso list SLUS_217.99.iso
  recomtools iso dump SLUS_217.99.iso ./output/
  recomtools iso dump -v --match "g000.dat/**" SLUS_217.99.iso ./output/
  recomtools rsrc unpack FIELD.BIN
  recomtools lzs unpack card.lzs card.bin --size 12288

Use 'recomtools [command] --help' for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main() and serves as the entry point for command execution.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		common.LogError("%v", err)
		os.Exit(1)
	}
}

// verboseFlag reads the shared verbose flag and applies it
func verboseFlag(cmd *cobra.Command) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("error getting verbose flag: %w", err)
	}
	common.SetVerboseMode(verbose)
	return nil
}
