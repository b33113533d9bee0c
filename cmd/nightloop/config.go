package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/nightloop/internal/config"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(root *RootOptions) *cobra.Command {
	var (
		format  string
		envVars bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration that run would use: defaults, overlaid by the
config file, NIGHTLOOP_* environment variables and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if envVars {
				fmt.Fprintln(out, strings.Join(config.EnvNames(), "\n"))
				return nil
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration:\n%w", err)
			}

			switch format {
			case "toml":
				doc, err := cfg.TOML()
				if err != nil {
					return err
				}
				fmt.Fprint(out, doc)
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("invalid format %q: must be toml or yaml", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format (toml|yaml)")
	cmd.Flags().BoolVar(&envVars, "env", false, "list the environment variables instead")

	return cmd
}
