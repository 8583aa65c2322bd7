package database

import (
	"fmt"
	"log"
	"time"

	"marketplace-scout/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens the listings database. A non-empty databaseURL selects
// MySQL; otherwise a local SQLite file is used so the four daemons can run
// on one machine with zero setup. Every daemon tolerates the others writing
// concurrently, so the only coordination is the schema itself.
func Initialize(databaseURL, sqlitePath string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	if databaseURL != "" {
		db, err = gorm.Open(mysql.Open(databaseURL), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
		}
	} else {
		// busy_timeout keeps concurrent daemon writes from failing fast
		// with SQLITE_BUSY.
		dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", sqlitePath)
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database %s: %w", sqlitePath, err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Schema: listings keyed by canonical_url with supporting indexes on
	// evaluation state and thumbnail hash (declared in the model tags).
	if err := db.AutoMigrate(&models.Listing{}); err != nil {
		return nil, fmt.Errorf("failed to migrate listings table: %w", err)
	}

	log.Println("Database initialized successfully")
	return db, nil
}
