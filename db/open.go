// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var ErrUnsupportedDriver = errors.New("unsupported database type")

// DriverName maps a configured database type to its database/sql driver.
func DriverName(databaseType string) (string, error) {
	switch databaseType {
	case "sqlite", "":
		return "sqlite", nil
	case "postgres", "postgresql":
		return "postgres", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, databaseType)
	}
}

// Open connects to the database, verifies the connection and creates the
// schema.
func Open(databaseType, url string) (*sql.DB, error) {
	driver, err := DriverName(databaseType)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// sqlite allows a single writer; one connection avoids SQLITE_BUSY.
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}
