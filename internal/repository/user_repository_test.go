package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketdesk-io/ticketdesk/internal/models"
)

func newUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	query := regexp.QuoteMeta("SELECT id, username, email, password, role, service, created_at FROM users WHERE email = ?")

	t.Run("Existing user", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectQuery(query).
			WithArgs("alice@x.com").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "username", "email", "password", "role", "service", "created_at"}).
				AddRow(1, "alice", "alice@x.com", "hash", "client", nil, time.Now()))

		user, err := repo.GetByEmail("alice@x.com")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "hash", user.Password)
	})

	t.Run("Unknown email", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectQuery(query).
			WithArgs("nobody@x.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmail("nobody@x.com")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUserRepositoryExistsByLogin(t *testing.T) {
	query := regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE username = ? OR email = ?")

	repo, mock := newUserRepo(t)
	mock.ExpectQuery(query).
		WithArgs("alice", "alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(query).
		WithArgs("bob", "bob@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	taken, err := repo.ExistsByLogin("alice", "alice@x.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByLogin("bob", "bob@x.com")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserRepositoryCreate(t *testing.T) {
	query := regexp.QuoteMeta("INSERT INTO users (username, email, password, role, service) VALUES (?, ?, ?, ?, ?)")

	t.Run("Returns the new id", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectExec(query).
			WithArgs("alice", "alice@x.com", "hash", "client", nil).
			WillReturnResult(sqlmock.NewResult(7, 1))

		id, err := repo.Create(&models.User{
			Username: "alice", Email: "alice@x.com", Password: "hash", Role: "client",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
	})

	t.Run("Unique violation maps to ErrDuplicateUser", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectExec(query).
			WithArgs("alice", "alice@x.com", "hash", "client", nil).
			WillReturnError(errors.New("UNIQUE constraint failed: users.username"))

		_, err := repo.Create(&models.User{
			Username: "alice", Email: "alice@x.com", Password: "hash", Role: "client",
		})
		assert.ErrorIs(t, err, ErrDuplicateUser)
	})
}
