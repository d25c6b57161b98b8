package localdb

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

var DBClient *sql.DB

// SetupDB opens (or creates) the sqlite database and ensures the schema.
func SetupDB(dbPath string) (*sql.DB, error) {
	if DBClient != nil {
		return DBClient, nil
	}

	// WAL mode and busy timeout guard against writer contention.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// sqlite is a single-writer store, keep the pool at one connection.
	db.SetMaxOpenConns(1)

	DBClient = db

	if err := SetupSegmentsTable(db); err != nil {
		return nil, err
	}

	return db, nil
}

// GetDB returns the current database handle, nil before SetupDB.
func GetDB() *sql.DB {
	return DBClient
}
