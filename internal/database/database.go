// Package database opens the MySQL connection used by the sql storage backend.
package database

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contact-manager/internal/config"
)

// DriverName is the database/sql driver used for all connections.
const DriverName = "mysql"

// DSN builds the data source name for the database described by the options.
func DSN(options config.DatabaseOptions) string {
	cfg := mysql.NewConfig()
	cfg.User = options.User
	cfg.Passwd = options.Password
	cfg.Net = "tcp"
	cfg.Addr = options.Host
	cfg.DBName = options.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// CreateDatabase initializes and returns a database connection. The connection is not verified;
// use Ping to find out whether the database is reachable.
func CreateDatabase(options config.DatabaseOptions) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, DSN(options))
	if err != nil {
		return nil, fmt.Errorf("could not open database %s at %s: %w", options.Name, options.Host, err)
	}
	return db, nil
}
