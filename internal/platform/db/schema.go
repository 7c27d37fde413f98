package db

import (
	"context"
	"database/sql"
	"fmt"

	"LabCV-backend/internal/platform/config"
)

// 旧スキーマ（students に number_of_equipment が無い / inventory が無い）からの移行も兼ねる
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		student_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		course TEXT,
		year_level INTEGER,
		number_of_equipment INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS equipment_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id TEXT NOT NULL,
		equipment_name TEXT NOT NULL,
		action TEXT CHECK(action IN ('borrow', 'return')),
		timestamp TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_equipment_log_student ON equipment_log (student_id, timestamp)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		student_id VARCHAR(64) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		course VARCHAR(255) NULL,
		year_level INT NULL,
		number_of_equipment INT NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	// name は大文字小文字を区別する
	`CREATE TABLE IF NOT EXISTS inventory (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
		quantity INT NOT NULL DEFAULT 0,
		UNIQUE KEY uq_inventory_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS equipment_log (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		student_id VARCHAR(64) NOT NULL,
		equipment_name VARCHAR(255) NOT NULL,
		action ENUM('borrow', 'return') NOT NULL,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_equipment_log_student (student_id, timestamp)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate は冪等。何度実行しても結果は同じ。
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case config.DriverSQLite:
		stmts = sqliteSchema
	case config.DriverMySQL:
		stmts = mysqlSchema
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return ensureEquipmentCountColumn(ctx, db)
}

func ensureEquipmentCountColumn(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT number_of_equipment FROM students LIMIT 0`)
	if err == nil {
		return rows.Close()
	}
	const q = `ALTER TABLE students ADD COLUMN number_of_equipment INTEGER NOT NULL DEFAULT 0`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("migrate: add students.number_of_equipment: %w", err)
	}
	return nil
}
