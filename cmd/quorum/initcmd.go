package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/averin/quorum/internal/config"
	"github.com/averin/quorum/internal/registry"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			if err := registry.DefaultFile().Save(path); err != nil {
				return err
			}

			fmt.Printf("Config written to %s\n", path)
			fmt.Println("\nNext steps:")
			fmt.Println("  quorum config set-key <provider> <api-key>")
			fmt.Println("  quorum list")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
