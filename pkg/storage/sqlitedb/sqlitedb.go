package sqlitedb

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Connect opens the SQLite ledger store. Write transactions take the
// database lock immediately so that concurrent chargeable events serialize
// at the store instead of failing mid-transaction, and busy_timeout bounds
// how long a writer waits before surfacing a contention error.
func Connect(dsn string) *sqlx.DB {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_txlock=immediate" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)"

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	// SQLite allows a single writer; one pooled connection keeps every
	// statement of a transaction on the same connection.
	db.SetMaxOpenConns(1)
	return db
}
