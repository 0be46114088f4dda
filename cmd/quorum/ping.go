package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/averin/quorum/internal/dispatch"
	"github.com/averin/quorum/internal/logging"
	"github.com/averin/quorum/internal/normalize"
	"github.com/averin/quorum/internal/prompt"
	"github.com/averin/quorum/internal/render"
	qstrings "github.com/averin/quorum/internal/strings"
)

func newPingCmd() *cobra.Command {
	var (
		timeout int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to every enabled provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, err := loadSetup()
			if err != nil {
				return err
			}
			providers, err := reg.Resolve(nil)
			if err != nil {
				return err
			}
			if len(providers) == 0 {
				return fmt.Errorf("no enabled providers with API keys")
			}

			seconds := cfg.Settings.TimeoutSeconds
			if timeout > 0 {
				seconds = timeout
			}

			fmt.Printf("Testing %d provider(s)...\n\n", len(providers))

			d := dispatch.New(nil, dispatch.Options{
				Timeout:     timeoutFromSeconds(seconds),
				MaxAttempts: 1,
				Temperature: cfg.Settings.TemperatureValue(),
				MaxTokens:   64,
			}, logging.New("ping"))

			results := d.Dispatch(cmd.Context(), prompt.Ping, providers)
			responses := normalize.All(results, providers)

			failed := 0
			for _, r := range responses {
				if r.Succeeded() {
					ok := "ok"
					if pretty {
						ok = color.GreenString("✓")
					}
					fmt.Printf("  %-12s %s (%s, %s)\n", r.ProviderID, ok, r.Model, render.FormatDuration(r.Elapsed))
					if verbose {
						fmt.Printf("               %s\n", qstrings.Cell(r.Content, 60))
					}
				} else {
					failed++
					bad := "failed"
					if pretty {
						bad = color.RedString("✗")
					}
					fmt.Printf("  %-12s %s %s\n", r.ProviderID, bad, r.Message)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d provider(s) unreachable", failed, len(providers))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&timeout, "timeout", "t", 0, "per-provider timeout in seconds")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show each provider's reply")
	return cmd
}
