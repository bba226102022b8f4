package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"eventreg/internal/platform/migrations"
)

func newMigrateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the registrations schema",
	}
	cmd.AddCommand(
		migrateStep(c, "up", "Apply all pending migrations", migrations.Up),
		migrateStep(c, "down", "Roll back all migrations", migrations.Down),
	)
	return cmd
}

func migrateStep(c *cli, use, short string, run func(driver, dsn string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := c.load()
			if err != nil {
				return err
			}
			driver, err := migrationDriver(cfg)
			if err != nil {
				return err
			}
			if err := run(driver, cfg.Database.URL); err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok (%s)\n", use, driver)
			return nil
		},
	}
}
