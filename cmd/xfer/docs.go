package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newDocsCmd() *cobra.Command {
	var dir, format string
	cmd := &cobra.Command{
		Use:    "gen-docs",
		Short:  "Generate documentation for xfer",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			// Generate from the root so every subcommand is documented.
			root := cmd.Root()
			switch format {
			case "man":
				return doc.GenManTree(root, &doc.GenManHeader{
					Title:   "XFER",
					Section: "1",
					Source:  "xfer " + version,
				}, dir)
			case "markdown":
				return doc.GenMarkdownTree(root, dir)
			default:
				return fmt.Errorf("unknown format %q (use man or markdown)", format)
			}
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "docs", "output directory")
	cmd.Flags().StringVar(&format, "format", "man", "output format (man or markdown)")
	return cmd
}
