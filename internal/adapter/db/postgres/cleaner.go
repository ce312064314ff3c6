package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// CleanDatabase wipes the users table and resets its identity sequence.
// Intended for test databases only; production code never calls it.
func CleanDatabase(db *gorm.DB) error {
	switch db.Dialector.Name() {
	case "postgres":
		if err := db.Exec(`TRUNCATE "users" RESTART IDENTITY CASCADE`).Error; err != nil {
			return fmt.Errorf("failed to clean test database: %w", err)
		}
	default:
		// sqlite has no TRUNCATE; delete rows and reset the autoincrement counter
		if err := db.Exec(`DELETE FROM users`).Error; err != nil {
			return fmt.Errorf("failed to clean test database: %w", err)
		}
		db.Exec(`DELETE FROM sqlite_sequence WHERE name = 'users'`)
	}
	return nil
}
