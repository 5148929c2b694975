package config

import (
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"cemetery_api/internal/models"
)

// InitDB opens the PostgreSQL connection through lib/pq and, when enabled,
// migrates the record tables.
func InitDB(c App) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        c.DSN(),
	}), &gorm.Config{
		Logger: gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if c.DBAutoMigrate {
		err = db.AutoMigrate(
			&models.User{},
			&models.Plot{},
			&models.Reservation{},
			&models.Payment{},
			&models.Deceased{},
			&models.Account{},
			&models.Token{},
		)
		if err != nil {
			return nil, fmt.Errorf("auto-migration failed: %w", err)
		}
	}
	return db, nil
}
