package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/averin/quorum/internal/archive"
	"github.com/averin/quorum/internal/config"
	"github.com/averin/quorum/internal/render"
	qstrings "github.com/averin/quorum/internal/strings"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List past runs, or replay one by id",
		Long: `Without an argument, history lists the most recent runs. With a run
id (or a unique prefix of one), it re-renders that run's report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := archive.Open(config.DataDir())
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 1 {
				mode, err := render.ParseMode(format)
				if err != nil {
					return err
				}
				rep, err := a.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Run from %s (%s)\n", rep.CreatedAt.Local().Format("2006-01-02 15:04"), rep.Kind)
				fmt.Printf("Prompt: %s\n\n", qstrings.Cell(rep.Prompt, 80))
				fmt.Println(newRenderer().Report(rep, mode))
				return nil
			}

			runs, err := a.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}

			fmt.Println("| ID | When | Kind | Prompt | OK | Failed |")
			fmt.Println("|----|------|------|--------|----|--------|")
			for _, r := range runs {
				fmt.Printf("| %s | %s | %s | %s | %d | %d |\n",
					r.ID[:8],
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Kind,
					qstrings.Cell(r.Prompt, 40),
					r.Succeeded,
					r.Failed,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")
	cmd.Flags().StringVarP(&format, "format", "f", "combined", "output format when replaying a run")
	return cmd
}
