// Package main provides the quorum CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/averin/quorum/internal/config"
	"github.com/averin/quorum/internal/runtime"
)

var (
	version = "0.1.0"
	pretty  = true
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quorum",
		Short: "Ask several AI providers at once and compare their answers",
		Long: `quorum fans one question out to multiple AI chat-completion
providers concurrently and renders the answers side by side.

Getting started:
  quorum init                      Write the default config file
  quorum config set-key zhipu KEY  Store a provider API key
  quorum ask "why is the sky blue" Query every enabled provider

Use 'quorum list' to see configured providers.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotenv()

			env := config.Env()
			if env.NoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
				pretty = false
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "colorized terminal output (off when piped)")

	rootCmd.AddCommand(
		newInitCmd(),
		newConfigCmd(),
		newListCmd(),
		newAskCmd(),
		newReviewCmd(),
		newDiagnoseCmd(),
		newPingCmd(),
		newHistoryCmd(),
	)

	ctx, stop := runtime.WithSignals(context.Background())
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
