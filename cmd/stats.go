package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge store statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	count, err := a.store.Count(ctx)
	if err != nil {
		return err
	}
	sources, err := a.store.Sources(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Chunks:  %d\n", count)
	fmt.Printf("Sources: %d\n", len(sources))

	if len(sources) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tCHUNKS")
		for _, s := range sources {
			fmt.Fprintf(w, "%s\t%d\n", s.Source, s.Chunks)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	return nil
}
