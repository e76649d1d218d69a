// Package migrations applies the goose SQL migrations from a folder on disk.
package migrations

import (
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateStore(db *gorm.DB, folder string) error {
	fi, err := os.Stat(folder)
	if err != nil {
		return fmt.Errorf("failed to open migration folder: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("migration path %s is not a folder", folder)
	}

	goose.SetLogger(gooseLogger{})
	goose.SetBaseFS(os.DirFS(folder))
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return goose.Up(sqlDB, ".")
}

// gooseLogger routes goose output through zap.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) { zap.S().Named("migrations").Infof(format, v...) }
func (gooseLogger) Fatalf(format string, v ...any) { zap.S().Named("migrations").Fatalf(format, v...) }
