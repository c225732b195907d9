package repository

import (
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ticketdesk-io/ticketdesk/internal/models"
)

// ErrDuplicateUser is returned when an insert collides with an existing
// username or email.
var ErrDuplicateUser = errors.New("username or email already taken")

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail fetches a user with the stored password hash included, for
// credential checks. Absent users surface as sql.ErrNoRows.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user,
		"SELECT id, username, email, password, role, service, created_at FROM users WHERE email = ?",
		email,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByLogin reports whether the username or email is already taken.
func (r *UserRepository) ExistsByLogin(username, email string) (bool, error) {
	var count int
	err := r.db.Get(&count,
		"SELECT COUNT(*) FROM users WHERE username = ? OR email = ?",
		username, email,
	)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new user row and returns its id. A collision with the
// UNIQUE constraints maps to ErrDuplicateUser.
func (r *UserRepository) Create(user *models.User) (int64, error) {
	result, err := r.db.Exec(
		"INSERT INTO users (username, email, password, role, service) VALUES (?, ?, ?, ?, ?)",
		user.Username, user.Email, user.Password, user.Role, user.Service,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrDuplicateUser
		}
		return 0, err
	}
	return result.LastInsertId()
}

// ListAssignable returns the users offered in the assignment picker.
// Admin accounts are excluded; they triage, they are not assignees.
func (r *UserRepository) ListAssignable() ([]models.AssignableUser, error) {
	users := []models.AssignableUser{}
	err := r.db.Select(&users,
		"SELECT id, username, email, role, service FROM users WHERE role != 'admin' ORDER BY username",
	)
	if err != nil {
		return nil, err
	}
	return users, nil
}
