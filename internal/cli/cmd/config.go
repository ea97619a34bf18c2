package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/infrastructure/config"
	"github.com/bnema/termdeck/internal/infrastructure/xdg"
)

var configPathAll bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long:  `Show where the configuration lives, the effective values, and the JSON schema.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Long:  `Print the config file path, or with --all every directory termdeck uses.`,
	RunE:  runConfigPath,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Long:  `Print the configuration after defaults and TERMDECK_* environment overrides are applied.`,
	RunE:  runConfigShow,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	RunE:  runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSchemaCmd)
	configPathCmd.Flags().BoolVarP(&configPathAll, "all", "a", false, "also print the data, state and cache directories")
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	out := cmd.OutOrStdout()
	if !configPathAll {
		fmt.Fprintln(out, app.Configs.ConfigFile())
		return nil
	}

	var paths port.XDGPaths = xdg.New()
	dirs := []struct {
		name string
		get  func() (string, error)
	}{
		{"config", paths.ConfigDir},
		{"data", paths.DataDir},
		{"state", paths.StateDir},
		{"cache", paths.CacheDir},
	}
	fmt.Fprintf(out, "%-9s %s\n", "file", app.Configs.ConfigFile())
	for _, d := range dirs {
		dir, err := d.get()
		if err != nil {
			return fmt.Errorf("resolve %s dir: %w", d.name, err)
		}
		fmt.Fprintf(out, "%-9s %s\n", d.name, dir)
	}
	fmt.Fprintf(out, "%-9s %s\n", "database", app.DatabasePath())
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	data, err := toml.Marshal(app.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	data, err := config.Schema()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
