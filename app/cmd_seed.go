package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"example.com/localspark/app/internal/infra/persistence/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample catalog into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.close()

		res, err := seed.Apply(cmd.Context(), store.products, store.events, time.Now())
		if err != nil {
			return err
		}
		logger.Info("seeded catalog", zap.Int("products", res.Products), zap.Int("events", res.Events))
		return nil
	},
}
