package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tenantcrm/internal/app"
	"tenantcrm/internal/config"
	"tenantcrm/internal/database"
	"tenantcrm/internal/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "crm",
	Short:         "Multi-tenant CRM server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()
		return app.Run(cfg, log)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := context.Background()
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("schema applied")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file.")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.Log.Environment, cfg.Log.Level), nil
}

// @title                       Tenant CRM API
// @version                     1.0
// @description                 Multi-tenant CRM: companies, contacts and deals scoped to the caller's tenant.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "crm:", err)
		os.Exit(1)
	}
}
