package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var enabledOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured providers and their models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := loadSetup()
			if err != nil {
				return err
			}

			providers := reg.All()
			if enabledOnly {
				providers = providers[:0:0]
				for _, p := range reg.All() {
					if p.Enabled {
						providers = append(providers, p)
					}
				}
			}

			fmt.Println(newRenderer().Providers(providers))
			return nil
		},
	}

	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "only show enabled providers")
	return cmd
}
