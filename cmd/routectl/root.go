package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"waste-route-service/internal/config"
	"waste-route-service/internal/platform/db"
	"waste-route-service/internal/platform/logger"
)

type rootOptions struct {
	cfgPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "routectl",
		Short:         "Waste collection route planning tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", config.Get("WRS_CONFIG", ""), "configuration file (yaml or json)")

	root.AddCommand(
		newInitCmd(opts),
		newSeedCmd(opts),
		newOptimizeCmd(opts),
	)
	return root
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	// Stdout carries command output.
	logger.InitWithWriter(cfg.Logging, os.Stderr)
	return cfg, nil
}

func (o *rootOptions) openDB(ctx context.Context) (*sql.DB, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required (set WRS_DATABASE__URL)")
	}
	return db.Open(ctx, cfg.Database)
}
