package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"LabCV-backend/internal/platform/config"
)

// Connect は設定に応じて mysql / sqlite のどちらかへ接続する
func Connect(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	switch c.Driver {
	case config.DriverMySQL:
		return connectMySQL(ctx, c)
	case config.DriverSQLite:
		return OpenSQLite(ctx, c.Path)
	default:
		return nil, fmt.Errorf("unsupported driver %q", c.Driver)
	}
}

func connectMySQL(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC&time_zone=%s",
		c.Username, c.Password, c.Host, c.Port, c.DBName, url.QueryEscape("'+00:00'"))

	db, err := sql.Open(config.DriverMySQL, dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// OpenSQLite は単一コネクションで sqlite を開く。
// 全操作がこのコネクション上で直列化されるため、件数の read-modify-write が競合しない。
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	db, err := sql.Open(config.DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}
