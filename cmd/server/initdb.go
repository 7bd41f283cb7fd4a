package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/parkfees/internal/config"
	"github.com/mmynk/parkfees/internal/storage/sqlite"
)

func initDBCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			store, err := sqlite.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			if err := store.Close(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Base de datos inicializada")
			return nil
		},
	}
}
