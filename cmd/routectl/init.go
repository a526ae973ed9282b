package main

import (
	"github.com/spf13/cobra"

	"waste-route-service/internal/adapters/repositories"
	"waste-route-service/internal/platform/logger"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			if err := repositories.InitSchema(cmd.Context(), database); err != nil {
				return err
			}
			log := logger.Component("routectl")
			log.Info().Msg("schema ready")
			return nil
		},
	}
}
