package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"eventreg/internal/platform/config"
)

// cli holds state shared by every subcommand.
type cli struct {
	cfgFile string
	v       *viper.Viper
}

func newRootCmd(version string) *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:           "eventreg",
		Short:         "Event registration service",
		Long:          `eventreg collects attendee registrations and serves the admin dashboard API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = c.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newServeCmd(c),
		newMigrateCmd(c),
		newExportCmd(c),
	)
	return root
}

// load reads and validates configuration.
func (c *cli) load() (*config.Config, []string, error) {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return nil, nil, err
	}
	warnings, err := cfg.Validate()
	if err != nil {
		return nil, nil, err
	}
	return cfg, warnings, nil
}
