package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/averin/quorum/internal/prompt"
)

func newDiagnoseCmd() *cobra.Command {
	var (
		flags    runFlags
		codeFile string
		language string
	)

	cmd := &cobra.Command{
		Use:   "diagnose <error-message>",
		Short: "Ask every enabled provider to analyze an error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var code string
			lang := language
			if codeFile != "" {
				data, err := os.ReadFile(codeFile)
				if err != nil {
					return fmt.Errorf("read code file: %w", err)
				}
				code = string(data)
				if lang == "" {
					lang = prompt.DetectLanguage(codeFile)
				}
			}
			if lang == "" {
				lang = "text"
			}

			return runQuery(cmd.Context(), prompt.KindDiagnose, prompt.Diagnose(args[0], code, lang), flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&codeFile, "file", "F", "", "file containing the code that produced the error")
	cmd.Flags().StringVarP(&language, "language", "l", "", "language name (default: detect from the code file)")
	return cmd
}
