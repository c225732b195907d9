package database

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketdesk-io/ticketdesk/internal/auth"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	var tables []string
	require.NoError(t, db.Select(&tables,
		"SELECT name FROM sqlite_master WHERE type='table' AND name IN ('users', 'tickets') ORDER BY name"))
	assert.Equal(t, []string{"tickets", "users"}, tables)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	// A row written before the second run survives it.
	_, err := db.Exec(
		"INSERT INTO users (username, email, password, role) VALUES (?, ?, ?, ?)",
		"alice", "alice@x.com", "hash", "client")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Equal(t, 1, count)
}

func TestMigrateUpgradesLegacyTicketsTable(t *testing.T) {
	db := openTestDB(t)

	// Schema revision predating the requester and estimate columns.
	_, err := db.Exec(`
		CREATE TABLE tickets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'nouveau',
			priority TEXT NOT NULL DEFAULT 'normale',
			service TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			assigned_to INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	columns, err := tableColumns(db, "tickets")
	require.NoError(t, err)
	assert.True(t, columns["service_demandeur"])
	assert.True(t, columns["nom_demandeur"])
	assert.True(t, columns["estimated_time"])
}

func TestSeed(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	hasher := auth.NewPasswordHasher()
	require.NoError(t, Seed(db, hasher))

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Equal(t, len(defaultUsers), count)

	// Seeding again must not duplicate accounts.
	require.NoError(t, Seed(db, hasher))
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Equal(t, len(defaultUsers), count)

	// The documented admin password verifies against the stored hash.
	var hash string
	require.NoError(t, db.Get(&hash, "SELECT password FROM users WHERE email = 'admin@test.com'"))
	assert.True(t, hasher.VerifyPassword("admin123", hash))
}
