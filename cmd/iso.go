// Package cmd provides command-line interface for disc image processing.
// This file contains commands for listing and extracting the .DAT container
// of Re:Chain of Memories PS2 disc images.
package cmd

import (
	"fmt"

	"github.com/hansbonini/recomtools/pkg"
	"github.com/spf13/cobra"
)

// isoCmd represents the parent command for all disc image operations.
var isoCmd = &cobra.Command{
	Use:   "iso",
	Short: "Process Re:Chain of Memories PS2 disc images",
	Long: `Process Re:Chain of Memories PS2 disc images (.iso or .bin).

Commands:
  list      Print the files stored in the .DAT container
  dump      Extract the files stored in the .DAT container

Examples:
  recomtools iso list SLUS_217.99.iso
  recomtools iso dump SLUS_217.99.iso ./output/`,
}

// isoListCmd prints every file record of the container.
var isoListCmd = &cobra.Command{
	Use:   "list [input_file]",
	Short: "List files stored in the disc container",
	Long: `List the files stored in the .DAT container of a disc image.

For each file the listing shows its absolute sector, byte offset, stored size,
decompressed size (for compressed members) and extraction path.

Example:
  recomtools iso list SLUS_217.99.iso
  recomtools iso list --match "**/*.ctd" SLUS_217.99.iso`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := verboseFlag(cmd); err != nil {
			return err
		}
		opts, err := dumpOptions(cmd)
		if err != nil {
			return err
		}

		count, err := pkg.NewISOProcessor(opts).List(args[0], cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("failed to list disc image: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d files\n", count)
		return nil
	},
}

// isoDumpCmd extracts every file of the container.
// Sub-archive members land in <archive>/<group id>/<name> and compressed
// members are written decompressed.
var isoDumpCmd = &cobra.Command{
	Use:   "dump [input_file] [output_directory]",
	Short: "Extract files from the disc container",
	Long: `Extract files from the .DAT container of a disc image.

This command validates the ISO9660 volume descriptor, reads the container
tables at the sectors given by the selected layout and writes every file
below the output directory. Compressed sub-archive members are decompressed.

Output:
  - Direct files keep their table name
  - Sub-archive members are written to <archive>/<group id>/<name>
  - Optional YAML manifest with sizes and xxhash64 checksums (--manifest)

Example:
  recomtools iso dump SLUS_217.99.iso ./output/
  recomtools iso dump -v --workers 4 --manifest files.yaml SLUS_217.99.iso ./output/`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		outputDir := args[1]

		if err := verboseFlag(cmd); err != nil {
			return err
		}
		opts, err := dumpOptions(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("Processing disc image: %s\n", inputFile)
		fmt.Printf("Output directory: %s\n", outputDir)

		count, err := pkg.NewISOProcessor(opts).Dump(cmd.Context(), inputFile, outputDir)
		if err != nil {
			return fmt.Errorf("failed to process disc image: %w", err)
		}

		fmt.Printf("Finished extracting %d files\n", count)
		return nil
	},
}

// dumpOptions collects the extraction flags of cmd. Flags a command does
// not define keep their zero value.
func dumpOptions(cmd *cobra.Command) (pkg.DumpOptions, error) {
	var opts pkg.DumpOptions
	flags := cmd.Flags()

	var err error
	if flags.Lookup("layout") != nil {
		if opts.Layout, err = flags.GetString("layout"); err != nil {
			return opts, err
		}
		if opts.LayoutFile, err = flags.GetString("layout-file"); err != nil {
			return opts, err
		}
	}
	if opts.Match, err = flags.GetString("match"); err != nil {
		return opts, err
	}
	if flags.Lookup("workers") != nil {
		if opts.Workers, err = flags.GetInt("workers"); err != nil {
			return opts, err
		}
		if opts.Manifest, err = flags.GetString("manifest"); err != nil {
			return opts, err
		}
		if opts.DryRun, err = flags.GetBool("dry-run"); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// addExtractFlags registers the flags shared by commands that write files
func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().Int("workers", 1, "Number of files to extract in parallel")
	cmd.Flags().String("manifest", "", "Write a YAML manifest of extracted files to this path")
	cmd.Flags().Bool("dry-run", false, "Decode everything without writing files")
}

// init initializes the iso command with its subcommands and flags.
func init() {
	rootCmd.AddCommand(isoCmd)
	isoCmd.AddCommand(isoListCmd)
	isoCmd.AddCommand(isoDumpCmd)

	isoCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output with table and block details")
	isoCmd.PersistentFlags().String("layout", "recom-ps2", "Container layout name")
	isoCmd.PersistentFlags().String("layout-file", "", "YAML file with additional container layouts")
	isoCmd.PersistentFlags().String("match", "", "Only include paths matching this glob (supports **)")

	addExtractFlags(isoDumpCmd)
}
