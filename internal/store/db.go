// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// New returns queries for a SQLite database.
func New(db DBTX) *Queries {
	return &Queries{db: db, driver: DriverSQLite}
}

// NewForDriver returns queries using the SQL dialect of driver.
func NewForDriver(db DBTX, driver string) *Queries {
	if driver == "" {
		driver = DriverSQLite
	}
	return &Queries{db: db, driver: driver}
}

// Queries holds the prepared statements of the store.
type Queries struct {
	db     DBTX
	driver string
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, driver: q.driver}
}
