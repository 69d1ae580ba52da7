package db

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"skillhub/internal/model"
)

// NewMySQL returns a connected GORM DB instance. TranslateError lets the
// repositories detect unique-key violations through gorm.ErrDuplicatedKey.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

func tables() []interface{} {
	return []interface{}{
		&model.SwapRequest{},
		&model.Profile{},
	}
}

// Migrate creates or updates the profiles and swap_requests tables. With
// reset set, existing tables are dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	if reset {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for _, table := range tables() {
			if err := db.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := db.AutoMigrate(&model.Profile{}, &model.SwapRequest{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
