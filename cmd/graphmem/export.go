package graphmem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [format]",
	Short: "Export the graph to an interchange format",
	Long: `Export the graph as json, csv, graphml, yaml, or parquet.

Each produced file is written into the output directory. CSV and parquet
produce separate entity and relation tables; json, graphml, and yaml
produce a single file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var exportOutDir string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "output directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	format := "json"
	if len(args) > 0 {
		format = args[0]
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}

	result, err := store.ExportGraph(format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(exportOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for name, data := range result.Files {
		path := filepath.Join(exportOutDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(data))
	}
	return nil
}
