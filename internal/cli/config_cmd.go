package cli

import (
	"fmt"
	"os"

	"github.com/legoplanner/legoplanner/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as YAML",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := effectiveConfig(app)
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print where the config file is read from",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := effectiveConfig(app)
				path := cfg.Path
				if path == "" {
					path = defaultConfigPath() + " (not present)"
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		newConfigInitCmd(app),
	)

	return cmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(app)
			if cfg.Path == "" {
				cfg.Path = defaultConfigPath()
			} else if !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.Path)
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfg.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func effectiveConfig(app *App) config.Config {
	if app.Config != nil {
		return *app.Config
	}
	return config.Default("")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return config.FilePath(home)
}
