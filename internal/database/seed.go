package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/ticketdesk-io/ticketdesk/internal/auth"
	"github.com/ticketdesk-io/ticketdesk/internal/models"
)

type seedUser struct {
	username string
	email    string
	password string
	role     models.UserRole
	service  *string
}

func strPtr(s string) *string { return &s }

var defaultUsers = []seedUser{
	{username: "admin", email: "admin@test.com", password: "admin123", role: models.RoleAdmin},
	{username: "technicien", email: "tech@test.com", password: "tech123", role: models.RoleTechnician, service: strPtr("technique")},
	{username: "collaborateur1", email: "colab1@test.com", password: "colab123", role: models.RoleCollaborateur},
	{username: "collaborateur2", email: "colab2@test.com", password: "colab123", role: models.RoleCollaborateur},
	{username: "collaborateur3", email: "colab3@test.com", password: "colab123", role: models.RoleCollaborateur},
	{username: "collaborateur4", email: "colab4@test.com", password: "colab123", role: models.RoleCollaborateur},
	{username: "collaborateur5", email: "colab5@test.com", password: "colab123", role: models.RoleCollaborateur},
}

// Seed inserts the default accounts. It only runs against an empty users
// table so repeated startups never duplicate or reset accounts.
func Seed(db *sqlx.DB, hasher *auth.PasswordHasher) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, u := range defaultUsers {
		hash, err := hasher.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("failed to hash seed password for %s: %w", u.username, err)
		}
		_, err = db.Exec(
			"INSERT INTO users (username, email, password, role, service) VALUES (?, ?, ?, ?, ?)",
			u.username, u.email, hash, string(u.role), u.service,
		)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.username, err)
		}
	}

	log.Printf("seed: created %d default users", len(defaultUsers))
	return nil
}
