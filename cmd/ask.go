package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your indexed documents",
	Long: `Ask retrieves the most relevant document chunks, generates an answer
grounded in them, and validates the answer before returning it. Invalid
answers are regenerated up to the configured retry limit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	question := strings.Join(args, " ")

	result, err := a.newEngine().Answer(ctx, question)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	fmt.Println(result.FinalResponse)
	return nil
}
