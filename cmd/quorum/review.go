package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/averin/quorum/internal/prompt"
)

func newReviewCmd() *cobra.Command {
	var (
		flags    runFlags
		language string
	)

	cmd := &cobra.Command{
		Use:   "review <file>",
		Short: "Have every enabled provider review a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			lang := language
			if lang == "" {
				lang = prompt.DetectLanguage(args[0])
			}
			if pretty {
				lines := strings.Count(string(code), "\n") + 1
				fmt.Fprintf(os.Stderr, "Reviewing %s (%s, %d lines)\n", args[0], lang, lines)
			}

			return runQuery(cmd.Context(), prompt.KindReview, prompt.Review(string(code), lang), flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&language, "language", "l", "", "language name (default: detect from extension)")
	return cmd
}
