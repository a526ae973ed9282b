package main

import (
	"github.com/spf13/cobra"

	"waste-route-service/internal/adapters/repositories"
	"waste-route-service/internal/platform/logger"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load requests, vehicles and demand history from a YAML fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := repositories.LoadFixture(file)
			if err != nil {
				return err
			}

			database, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			if err := repositories.InitSchema(cmd.Context(), database); err != nil {
				return err
			}
			if err := repositories.SeedFromFixture(cmd.Context(), database, f); err != nil {
				return err
			}

			log := logger.Component("routectl")
			log.Info().
				Int("requests", len(f.Requests)).
				Int("vehicles", len(f.Vehicles)).
				Int("history", len(f.History)).
				Msg("seeding complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "data/fixtures.yaml", "fixture file")
	return cmd
}
