package cmd

import (
	"fmt"
	"log/slog"

	"github.com/bookshelf-labs/shelfscan/internal/export"
	"github.com/bookshelf-labs/shelfscan/internal/storage"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var dataDir string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored analysis results to a Parquet dataset",
		Long: `Flattens every stored analysis result into per-book rows and writes
them to a single Parquet file for offline review.`,
		Example: `  # Export everything under the default data dir
  shelfscan export --out books.parquet

  # Export from a custom data dir
  shelfscan export --data-dir /var/lib/shelfscan --out books.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.New(dataDir)
			if err != nil {
				return fmt.Errorf("failed to open data dir: %w", err)
			}

			results, err := store.LoadAllResults()
			if err != nil {
				return fmt.Errorf("failed to load results: %w", err)
			}
			if len(results) == 0 {
				slog.Warn("No stored analysis results found", "data_dir", dataDir)
			}

			rows, err := export.WriteParquet(results, out)
			if err != nil {
				return fmt.Errorf("failed to write parquet file: %w", err)
			}

			slog.Info("Exported analysis results", "results", len(results), "books", rows, "out", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", storage.DefaultDataDir(), "Directory holding uploads and results")
	cmd.Flags().StringVarP(&out, "out", "o", "books.parquet", "Output parquet file")

	return cmd
}
