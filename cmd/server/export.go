package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"eventreg/internal/admin/export"
	adminservice "eventreg/internal/admin/service"
	"eventreg/internal/platform/logger"
)

func newExportCmd(c *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every registration as CSV",
		Long:  `Writes the same CSV the admin export endpoint serves. Use --out - for stdout.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := c.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

			records, closeStore, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			admin, err := adminservice.New(records, adminservice.WithLogger(log))
			if err != nil {
				return err
			}
			table, err := admin.ExportTable(ctx)
			if err != nil {
				return err
			}

			if out == "" {
				out = export.Filename(time.Now())
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if err := export.WriteCSV(w, table); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d registrations to %s\n", len(table)-1, out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default registrations_<date>.csv)")
	return cmd
}
