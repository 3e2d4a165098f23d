package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tripnotes/internal/config"
	"tripnotes/internal/models/db_models"
)

// NewDBEngine opens the configured database and sizes its connection pool.
func NewDBEngine(c *config.AppConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(c.Database)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if c.Server.RunMode == "debug" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(c.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime())

	log.Info("database connected", zap.String("type", c.Database.Type))
	return db, nil
}

func dialectorFor(c config.DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case "postgres":
		if c.DSN == "" {
			return nil, fmt.Errorf("database dsn is required for postgres")
		}
		return postgres.Open(c.DSN), nil
	case "sqlite", "":
		if c.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(c.Path), os.ModePerm); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(c.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", c.Type)
	}
}

// Migrate creates or updates the tables the plan engine reads and writes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.Project{},
		&db_models.Note{},
		&db_models.Plan{},
	)
}

func CloseDatabase(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("get database instance failed", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("close database failed", zap.Error(err))
		return
	}
	log.Info("database connection closed")
}
