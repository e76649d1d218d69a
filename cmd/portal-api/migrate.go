package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/townplan/assessment-portal/internal/config"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/pkg/log"
	"github.com/townplan/assessment-portal/pkg/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		st := store.NewStore(db)
		defer st.Close()

		if cfg.Service.MigrationFolder == "" {
			zap.S().Info("no migration folder set, creating schema from models")
			return st.InitialMigration()
		}

		return migrations.MigrateStore(db, cfg.Service.MigrationFolder)
	},
}
