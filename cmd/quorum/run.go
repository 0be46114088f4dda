package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/averin/quorum/internal/aggregate"
	"github.com/averin/quorum/internal/archive"
	"github.com/averin/quorum/internal/config"
	"github.com/averin/quorum/internal/dispatch"
	"github.com/averin/quorum/internal/logging"
	"github.com/averin/quorum/internal/normalize"
	"github.com/averin/quorum/internal/prompt"
	"github.com/averin/quorum/internal/render"
)

// runFlags are the options shared by every querying command.
type runFlags struct {
	providers []string
	format    string
	timeout   int
	save      string
	asJSON    bool
	noArchive bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.providers, "providers", "p", nil, "provider ids to query (default: all enabled)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "combined", "output format: table, detailed, combined")
	cmd.Flags().IntVarP(&f.timeout, "timeout", "t", 0, "per-provider timeout in seconds (default from config)")
	cmd.Flags().StringVarP(&f.save, "save", "s", "", "write the report to a markdown file")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "emit the raw report as JSON instead of markdown")
	cmd.Flags().BoolVar(&f.noArchive, "no-archive", false, "skip recording the run in history")
}

// runQuery drives the full pipeline for one prompt: resolve providers,
// fan out, normalize, aggregate, render, archive.
func runQuery(ctx context.Context, kind prompt.Kind, text string, flags runFlags) error {
	cfg, reg, err := loadSetup()
	if err != nil {
		return err
	}

	providers, err := reg.Resolve(flags.providers)
	if err != nil {
		return err
	}
	if len(providers) == 0 {
		return fmt.Errorf("no enabled providers with API keys, run 'quorum config set-key <provider> <key>'")
	}

	settings := cfg.Settings
	if flags.timeout > 0 {
		settings.TimeoutSeconds = flags.timeout
	}

	mode, err := render.ParseMode(flags.format)
	if err != nil {
		return err
	}

	log := logging.New("run")
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.ID)
	}
	log.Info("dispatching", map[string]any{"kind": string(kind), "providers": names})

	if pretty {
		fmt.Fprintf(os.Stderr, "Querying %d provider(s)...\n", len(providers))
	}

	d := dispatch.New(nil, dispatch.Options{
		Timeout:     timeoutFromSeconds(settings.TimeoutSeconds),
		MaxAttempts: settings.MaxAttempts,
		Temperature: settings.TemperatureValue(),
		MaxTokens:   settings.MaxTokens,
	}, log)

	start := time.Now()
	results := d.Dispatch(ctx, text, providers)
	responses := normalize.All(results, providers)
	report := aggregate.Build(text, string(kind), responses, time.Now().UTC())
	log.Timed("run complete", time.Since(start), map[string]any{
		"succeeded": report.Summary.Succeeded,
		"failed":    report.Summary.Failed,
	})

	output := newRenderer().Report(report, mode)
	saved := render.Markdown(report, mode)
	if flags.asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		output = string(data)
		saved = output
	}
	fmt.Println(output)

	if flags.save != "" {
		if err := saveOutput(flags.save, saved); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report saved to %s\n", flags.save)
	}

	if !flags.noArchive {
		if err := archiveRun(ctx, report); err != nil {
			// History is a convenience; the answers already printed.
			log.Warn("archive failed", nil, err)
		}
	}

	if report.Summary.Succeeded == 0 {
		return fmt.Errorf("all %d provider call(s) failed", len(providers))
	}
	return nil
}

func archiveRun(ctx context.Context, report aggregate.Report) error {
	a, err := archive.Open(config.DataDir())
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.Save(ctx, report)
	if err != nil {
		return err
	}
	if pretty {
		fmt.Fprintf(os.Stderr, "Run recorded as %s\n", id[:8])
	}
	return nil
}
