package database

import (
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/logger"
)

// Connect opens the postgres database at dsn and runs the migrations.
func Connect(dsn string, l *zap.SugaredLogger) (*gorm.DB, error) {
	l = logger.OrNop(l)
	if dsn == "" {
		return nil, errors.New("database.dsn is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	l.Infow("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	l.Infow("Migrations applied")
	return db, nil
}

// Migrate creates or updates the tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&ApplicationRow{}); err != nil {
		return errors.Wrap(err, "auto-migrate")
	}
	return nil
}
