// Copyright (C) 2020  Lukas Dietrich <lukas@lukasdietrich.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package storage

import (
	"context"
	"database/sql"
	"errors"
	"net/url"

	rice "github.com/GeertJohan/go.rice"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/viper"

	"github.com/lukasdietrich/minismtp/internal/log"
)

const (
	driverName = "sqlite3"
	inMemory   = ":memory:"
)

func init() {
	migrate.SetTable("migrations")

	viper.SetDefault("storage.database.filename", "data/minismtp.sqlite")
	viper.SetDefault("storage.database.journalmode", "wal")
}

// DatabaseOptions configure the sqlite database.
type DatabaseOptions struct {
	Filename    string
	JournalMode string
}

// DatabaseOptionsFromViper reads the database options from the configuration.
func DatabaseOptionsFromViper() DatabaseOptions {
	return DatabaseOptions{
		Filename:    viper.GetString("storage.database.filename"),
		JournalMode: viper.GetString("storage.database.journalmode"),
	}
}

// Database is a sqlite database with all migrations applied.
type Database struct {
	conn *sqlx.DB
}

// OpenDatabase opens the database and applies pending migrations.
func OpenDatabase(opts DatabaseOptions) (*Database, error) {
	sqliteVersion, _, _ := sqlite3.Version()
	dsn := createDataSourceName(opts)

	log.Info().
		Str("dataSourceName", dsn).
		Str("sqliteVersion", sqliteVersion).
		Msg("connecting to database")

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if opts.Filename == inMemory {
		// every connection would see its own empty database otherwise
		db.SetMaxOpenConns(1)
	}

	migrations, err := loadMigrations()
	if err != nil {
		db.Close() // nolint:errcheck
		return nil, err
	}

	n, err := migrate.Exec(db.DB, driverName, migrations, migrate.Up)
	if err != nil {
		db.Close() // nolint:errcheck
		return nil, err
	}

	if n > 0 {
		log.Info().
			Int("migrations", n).
			Msg("database migrations applied")
	}

	return &Database{db}, nil
}

func createDataSourceName(opts DatabaseOptions) string {
	values := make(url.Values)
	values.Add("_foreign_keys", "true")
	values.Add("_journal_mode", opts.JournalMode)

	dsn := url.URL{
		Scheme:   "file",
		Opaque:   opts.Filename,
		RawQuery: values.Encode(),
	}

	return dsn.String()
}

func loadMigrations() (migrate.MigrationSource, error) {
	box, err := rice.FindBox("../../migrations")
	if err != nil {
		return nil, err
	}

	source := migrate.HttpFileSystemMigrationSource{
		FileSystem: box.HTTPBox(),
	}

	return &source, nil
}

// Close closes all connections.
func (d *Database) Close() error {
	return d.conn.Close()
}

// BeginTx starts a new transaction bound to ctx.
func (d *Database) BeginTx(ctx context.Context) (*Tx, error) {
	raw, err := d.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &Tx{raw, ctx}, nil
}

// Tx is a database transaction. All queries use the context of BeginTx.
type Tx struct {
	raw *sqlx.Tx
	ctx context.Context
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.raw.Rollback()
}

// RollbackWith calls Rollback and, unless the transaction was already committed, calls the
// callback function.
func (t *Tx) RollbackWith(callback func()) error {
	err := t.Rollback()

	if !errors.Is(err, sql.ErrTxDone) {
		callback()
	}

	return err
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.raw.Commit()
}

// Exec executes a query that does not return rows.
func (t *Tx) Exec(query string, args ...interface{}) (sql.Result, error) {
	return t.raw.ExecContext(t.ctx, query, args...)
}

// NamedExec executes a query and maps the query parameters by name.
func (t *Tx) NamedExec(query string, args interface{}) (sql.Result, error) {
	return t.raw.NamedExecContext(t.ctx, query, args)
}

// Get executes a query returning a single row.
func (t *Tx) Get(dest interface{}, query string, args ...interface{}) error {
	return t.raw.GetContext(t.ctx, dest, query, args...)
}

// Select executes a query returning multiple rows.
func (t *Tx) Select(dest interface{}, query string, args ...interface{}) error {
	return t.raw.SelectContext(t.ctx, dest, query, args...)
}
