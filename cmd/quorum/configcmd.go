package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/averin/quorum/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change provider configuration",
	}
	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetKeyCmd(),
		newConfigEnableCmd(true),
		newConfigEnableCmd(false),
	)
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current configuration with keys redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, err := loadSetup()
			if err != nil {
				return err
			}

			fmt.Printf("Config file: %s\n", config.Path())
			s := cfg.Settings
			fmt.Printf("Settings: timeout=%ds attempts=%d temperature=%.1f max_tokens=%d\n\n",
				s.TimeoutSeconds, s.MaxAttempts, s.TemperatureValue(), s.MaxTokens)

			for _, p := range reg.All() {
				state := "disabled"
				if p.Enabled {
					state = "enabled"
				}
				fmt.Printf("%s (%s): %s, key %s, %d model(s)\n",
					p.ID, p.Name, state, keyPreview(p.APIKey), len(p.Models))
			}
			return nil
		},
	}
}

func newConfigSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <provider> <api-key>",
		Short: "Store a provider API key and enable the provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			cfg, _, err := loadSetup()
			if err != nil {
				return err
			}
			if err := cfg.SetKey(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Printf("Key stored for %s (%s)\n", args[0], keyPreview(args[1]))
			return nil
		},
	}
}

func newConfigEnableCmd(enable bool) *cobra.Command {
	use, short := "enable <provider>", "Enable a provider"
	if !enable {
		use, short = "disable <provider>", "Disable a provider without removing its key"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			cfg, _, err := loadSetup()
			if err != nil {
				return err
			}

			p, ok := cfg.Providers[args[0]]
			if !ok {
				return fmt.Errorf("unknown provider: %s", args[0])
			}
			p.Enabled = enable
			cfg.Providers[args[0]] = p

			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", args[0], map[bool]string{true: "enabled", false: "disabled"}[enable])
			return nil
		},
	}
}
