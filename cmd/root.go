// Package cmd implements the ragchat command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "Retrieval-augmented question answering over your documents",
	Long: `ragchat indexes local documents (PDF, text, Markdown, images) into a
PostgreSQL vector store and answers questions about them.

Answers are generated from retrieved document context and validated for
grounding before being returned; ungrounded answers are regenerated up
to a configurable retry limit.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
