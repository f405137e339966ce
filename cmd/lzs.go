// Package cmd provides command-line interface for compressed blobs.
// This file contains the command for decompressing a single file that was
// extracted without its container metadata.
package cmd

import (
	"fmt"

	"github.com/hansbonini/recomtools/pkg/lzs"
	"github.com/spf13/cobra"
)

// lzsCmd represents the parent command for compressed blob operations.
var lzsCmd = &cobra.Command{
	Use:   "lzs",
	Short: "Process compressed blobs",
	Long: `Process blobs stored with the container's block compression.

Commands:
  unpack    Decompress a blob

Examples:
  recomtools lzs unpack card.lzs card.bin --size 12288`,
}

// lzsUnpackCmd decompresses one blob. The decompressed size is not stored
// in the blob itself, so it has to be given.
var lzsUnpackCmd = &cobra.Command{
	Use:   "unpack [input_file] [output_file]",
	Short: "Decompress a blob",
	Long: `Decompress a blob that uses the container's block compression.

The decompressed size comes from the member table of the container and must
be passed with --size. Output stops at that size, or earlier when the
compressed blocks run out.

Example:
  recomtools lzs unpack card.lzs card.bin --size 12288`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		outputFile := args[1]

		if err := verboseFlag(cmd); err != nil {
			return err
		}
		size, err := cmd.Flags().GetInt("size")
		if err != nil {
			return fmt.Errorf("error getting size flag: %w", err)
		}

		fmt.Printf("Processing compressed file: %s\n", inputFile)
		if err := lzs.UnpackFile(inputFile, outputFile, size); err != nil {
			return fmt.Errorf("failed to unpack compressed file: %w", err)
		}

		fmt.Println("Compressed file unpacked successfully!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lzsCmd)
	lzsCmd.AddCommand(lzsUnpackCmd)

	lzsUnpackCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output with block details")
	lzsUnpackCmd.Flags().Int("size", 0, "Decompressed size in bytes")
	lzsUnpackCmd.MarkFlagRequired("size")
}
