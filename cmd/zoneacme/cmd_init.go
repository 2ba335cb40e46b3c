package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kompox/zoneacme/config/zoneenv"
)

func newCmdInit() *cobra.Command {
	var forceFlag bool
	var templateFlag string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the zoneacme home directory",
		Long: `Initialize the zoneacme home directory ($ZONEACME_HOME, default $HOME/.zoneacme).

The init command creates:
  - the home directory
  - config.yml with default configuration
  - cache/ for kubeconfigs provisioned per token`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, forceFlag, templateFlag)
		},
	}

	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing config.yml")
	cmd.Flags().StringVar(&templateFlag, "template", "", "kubeconfig.template written to config.yml")
	return cmd
}

func runInit(cmd *cobra.Command, forceFlag bool, template string) error {
	s, err := settingsFromContext(cmd.Context())
	if err != nil {
		return err
	}
	env := s.Env
	configPath := env.ConfigPath()

	if !forceFlag {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists (use -f to overwrite)", configPath)
		}
	}

	if err := os.MkdirAll(env.Home, 0o700); err != nil {
		return fmt.Errorf("creating %s directory: %w", env.Home, err)
	}
	if err := os.MkdirAll(env.CacheDir(), 0o700); err != nil {
		return fmt.Errorf("creating %s directory: %w", env.CacheDir(), err)
	}

	data, err := zoneenv.InitialConfigYAML(template)
	if err != nil {
		return fmt.Errorf("generating default config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Initialized zoneacme home in %s\n", env.Home)
	fmt.Fprintf(w, "Created:\n")
	fmt.Fprintf(w, "  - %s\n", configPath)
	fmt.Fprintf(w, "  - %s/\n", env.CacheDir())
	return nil
}
