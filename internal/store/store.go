// Package store is the relational persistence layer: a SQLite database
// holding account and vault rows. Callers hand it SQL statements and get
// string-typed rows back; every persisted value is text or a text-encoded
// binary, so nothing richer is needed.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Row is one result row with every column rendered as a string.
type Row = []string

const schema = `
CREATE TABLE IF NOT EXISTS account (
	username   TEXT PRIMARY KEY,
	auth_key   TEXT NOT NULL,
	auth_salt  TEXT NOT NULL,
	crypt_salt TEXT NOT NULL,
	created    TEXT NOT NULL,
	modified   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS vault (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	username    TEXT NOT NULL,
	iv          TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	password    TEXT NOT NULL,
	created     TEXT NOT NULL,
	modified    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS vault_username ON vault (username);
`

// DB wraps the SQLite handle behind query/execute calls.
type DB struct {
	sql *sql.DB
}

// Open opens or creates the passkeep database and ensures the schema exists.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection sidesteps SQLITE_BUSY between statements.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &DB{sql: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Query runs a statement expected to yield at most one row. Returns a nil
// Row when nothing matched.
func (d *DB) Query(stmt string, args ...any) (Row, error) {
	rows, err := d.sql.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	row, err := scanRow(rows)
	if err != nil {
		return nil, err
	}
	return row, rows.Err()
}

// QueryAll runs a statement and returns every matching row.
func (d *DB) QueryAll(stmt string, args ...any) ([]Row, error) {
	rows, err := d.sql.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Execute runs an insert, update or delete and returns the last insert id.
func (d *DB) Execute(stmt string, args ...any) (int64, error) {
	result, err := d.sql.Exec(stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("execute failed: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read insert id: %w", err)
	}
	return id, nil
}

// Tx carries writes that must commit or roll back together.
type Tx struct {
	tx *sql.Tx
}

// Execute runs a statement inside the transaction.
func (t *Tx) Execute(stmt string, args ...any) (int64, error) {
	result, err := t.tx.Exec(stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("execute failed: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read insert id: %w", err)
	}
	return id, nil
}

// Transact runs fn inside a transaction, committing on nil and rolling back
// on error. The password-rotation sweep depends on this: the account row and
// the re-encrypted vault rows form one failure unit.
func (d *DB) Transact(fn func(tx *Tx) error) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&Tx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func scanRow(rows *sql.Rows) (Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	row := make(Row, len(cols))
	for i, v := range values {
		row[i] = v.String
	}
	return row, nil
}
