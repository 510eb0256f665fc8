package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back SQL schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrateUp(cmd.Context())
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		mg, err := openMigrator(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer mg.Close()

		if err := mg.Down(); err != nil {
			return err
		}
		return logVersion(mg.Version)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		mg, err := openMigrator(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer mg.Close()

		v, dirty, err := mg.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

func migrateUp(ctx context.Context) error {
	mg, err := openMigrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := mg.Up(); err != nil {
		return err
	}
	return logVersion(mg.Version)
}

func logVersion(version func() (uint, bool, error)) error {
	v, dirty, err := version()
	if err != nil {
		return err
	}
	logger.Info("schema migrated", zap.Uint("version", v), zap.Bool("dirty", dirty))
	return nil
}
