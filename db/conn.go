// Package db opens the database the gallery stores its records in
package db

import (
	"errors"
	"fmt"
	"os"

	"bitwise74/gallery-api/internal/model"
	"bitwise74/gallery-api/pkg/util"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the database configured by db.type and migrates it
func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch t := viper.GetString("db.type"); t {
	case "postgres":
		dialector = postgres.Open(viper.GetString("db.dsn"))
	case "sqlite", "":
		p := viper.GetString("db.path")

		// If running in a docker container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if util.IsRunningInContainer() {
			if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to /app/%s", p)
			}
		}

		dialector = sqlite.Open(p)
	default:
		return nil, fmt.Errorf("unsupported database type %q", t)
	}

	return Open(dialector)
}

// Open connects through dialector and migrates every model
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database, %w", dialector.Name(), err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
