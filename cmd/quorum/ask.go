package main

import (
	"github.com/spf13/cobra"

	"github.com/averin/quorum/internal/prompt"
)

func newAskCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask every enabled provider a question",
		Long: `Ask sends one question to every enabled provider concurrently and
renders the answers side by side. The question comes from the argument
or, when omitted, from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readContentArg(args)
			if err != nil {
				return err
			}
			return runQuery(cmd.Context(), prompt.KindAsk, question, flags)
		},
	}

	flags.register(cmd)
	return cmd
}
