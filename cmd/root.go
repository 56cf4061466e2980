package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelfscan",
		Short: "Bookshelf photo analysis with LLM-powered spine reading",
		Long: `Shelfscan analyzes photos of bookshelves.

It detects individual book spines, reads title, author and genre off each
spine with a vision-capable LLM, enriches the results with bibliographic
metadata from Google Books and Open Library, and recommends further reading.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}
