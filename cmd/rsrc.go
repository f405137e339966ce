// Package cmd provides command-line interface for packed resource files.
package cmd

import (
	"fmt"

	"github.com/hansbonini/recomtools/pkg"
	"github.com/spf13/cobra"
)

// rsrcCmd represents the parent command for packed resource operations.
var rsrcCmd = &cobra.Command{
	Use:   "rsrc",
	Short: "Process packed resource files",
	Long: `Process flat packed resource files found inside the disc container.

Commands:
  unpack    Extract every entry of a packed resource

Examples:
  recomtools rsrc unpack FIELD.BIN
  recomtools rsrc unpack -d ./field FIELD.BIN`,
}

// rsrcUnpackCmd extracts every entry of a packed resource.
var rsrcUnpackCmd = &cobra.Command{
	Use:   "unpack [input_file]",
	Short: "Extract files from a packed resource",
	Long: `Extract files from a packed resource.

Without --dir the files are written to <input file name>.out in the
current directory.

Example:
  recomtools rsrc unpack FIELD.BIN
  recomtools rsrc unpack -d ./field FIELD.BIN`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]

		if err := verboseFlag(cmd); err != nil {
			return err
		}
		opts, err := dumpOptions(cmd)
		if err != nil {
			return err
		}

		outputDir, err := cmd.Flags().GetString("dir")
		if err != nil {
			return fmt.Errorf("error getting dir flag: %w", err)
		}
		if outputDir == "" {
			outputDir = pkg.DefaultOutputDir(inputFile)
		}

		fmt.Printf("Processing packed resource: %s\n", inputFile)
		fmt.Printf("Output directory: %s\n", outputDir)

		count, err := pkg.NewResourceProcessor(opts).Unpack(cmd.Context(), inputFile, outputDir)
		if err != nil {
			return fmt.Errorf("failed to process packed resource: %w", err)
		}

		fmt.Printf("Finished extracting %d files\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rsrcCmd)
	rsrcCmd.AddCommand(rsrcUnpackCmd)

	rsrcUnpackCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	rsrcUnpackCmd.Flags().StringP("dir", "d", "", "Output directory (default <input>.out)")
	rsrcUnpackCmd.Flags().String("match", "", "Only extract paths matching this glob (supports **)")
	addExtractFlags(rsrcUnpackCmd)
}
