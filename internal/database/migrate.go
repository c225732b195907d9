package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

const usersSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('admin', 'technicien', 'collaborateur', 'client')),
	service TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

const ticketsSchema = `
CREATE TABLE tickets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'nouveau' CHECK (status IN ('nouveau', 'en_cours', 'termine', 'annule')),
	priority TEXT NOT NULL DEFAULT 'normale' CHECK (priority IN ('basse', 'normale', 'haute')),
	service TEXT NOT NULL,
	service_demandeur TEXT NOT NULL,
	nom_demandeur TEXT NOT NULL,
	estimated_time INTEGER,
	user_id INTEGER NOT NULL,
	assigned_to INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users (id),
	FOREIGN KEY (assigned_to) REFERENCES users (id)
)`

// Columns added to pre-existing ticket databases. Kept additive so the
// migration can run against any historical schema revision.
var ticketColumnUpgrades = map[string]string{
	"service_demandeur": "ALTER TABLE tickets ADD COLUMN service_demandeur TEXT NOT NULL DEFAULT ''",
	"nom_demandeur":     "ALTER TABLE tickets ADD COLUMN nom_demandeur TEXT NOT NULL DEFAULT ''",
	"estimated_time":    "ALTER TABLE tickets ADD COLUMN estimated_time INTEGER",
}

// Migrate creates or upgrades the schema. It is idempotent and runs as an
// explicit startup step before the server begins accepting requests.
func Migrate(db *sqlx.DB) error {
	if err := ensureTable(db, "users", usersSchema, nil); err != nil {
		return err
	}
	if err := ensureTable(db, "tickets", ticketsSchema, ticketColumnUpgrades); err != nil {
		return err
	}
	if err := ensureColumn(db, "users", "service", "ALTER TABLE users ADD COLUMN service TEXT"); err != nil {
		return err
	}
	return nil
}

func ensureTable(db *sqlx.DB, name, schema string, columnUpgrades map[string]string) error {
	var found string
	err := db.Get(&found, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", name)
	if err == sql.ErrNoRows {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
		log.Printf("migrations: created table %s", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check table %s: %w", name, err)
	}

	for column, stmt := range columnUpgrades {
		if err := ensureColumn(db, name, column, stmt); err != nil {
			return err
		}
	}
	return nil
}

func ensureColumn(db *sqlx.DB, table, column, alterStmt string) error {
	columns, err := tableColumns(db, table)
	if err != nil {
		return err
	}
	if columns[column] {
		return nil
	}
	if _, err := db.Exec(alterStmt); err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}
	log.Printf("migrations: added column %s.%s", table, column)
	return nil
}

func tableColumns(db *sqlx.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}
