package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearSource string

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove indexed documents from the knowledge store",
	Long: `Clear removes all indexed chunks. With --source it removes only the
chunks belonging to that source file.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().StringVar(&clearSource, "source", "", "remove only this source (file name)")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if clearSource != "" {
		if err := a.store.DeleteSource(ctx, clearSource); err != nil {
			return err
		}
		fmt.Printf("Removed source %s\n", clearSource)
		return nil
	}

	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("Knowledge store cleared")
	return nil
}
