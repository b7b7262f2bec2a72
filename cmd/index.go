package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [path...]",
	Short: "Index documents into the knowledge store",
	Long: `Index extracts text from the given files or directories, splits it
into overlapping chunks, embeds each chunk and stores it for retrieval.

Supported types: .pdf, .txt, .md and images (.png, .jpg, .jpeg, .webp).
Scanned PDF pages and images go through OCR. Directories are walked
recursively, honoring a .gitignore at the directory root. Re-indexing a
file replaces its previous chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	indexer := a.newIndexer()

	for _, path := range args {
		result, err := indexer.AddPath(ctx, path)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}

		fmt.Printf("%s: %d file(s) indexed, %d chunk(s) added", path, result.FilesAdded, result.ChunksAdded)
		if result.FilesSkipped > 0 {
			fmt.Printf(", %d skipped", result.FilesSkipped)
		}
		if result.FilesFailed > 0 {
			fmt.Printf(", %d failed", result.FilesFailed)
		}
		fmt.Printf(" (%s)\n", result.Duration.Round(10*time.Millisecond))
	}

	return nil
}
