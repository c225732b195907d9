package auth

import (
	"database/sql"
	"errors"

	"github.com/ticketdesk-io/ticketdesk/internal/models"
	"github.com/ticketdesk-io/ticketdesk/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("all fields are required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrUserExists         = errors.New("username or email already exists")
)

type Service struct {
	users       *repository.UserRepository
	jwtManager  *JWTManager
	hasher      *PasswordHasher
	minPassword int
}

func NewService(users *repository.UserRepository, jwtManager *JWTManager, hasher *PasswordHasher, minPassword int) *Service {
	return &Service{
		users:       users,
		jwtManager:  jwtManager,
		hasher:      hasher,
		minPassword: minPassword,
	}
}

// Login verifies credentials and issues a session token. The same error is
// returned for an unknown email and a wrong password so the response never
// reveals which accounts exist.
func (s *Service) Login(email, password string) (*models.AuthResponse, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.VerifyPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}

// Register creates an account with the default role and issues a session
// token so a fresh registration is immediately signed in.
func (s *Service) Register(username, email, password string) (*models.AuthResponse, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(password) < s.minPassword {
		return nil, ErrPasswordTooShort
	}

	// Pre-check before paying for the bcrypt hash; the UNIQUE constraint
	// still catches a concurrent registration.
	taken, err := s.users.ExistsByLogin(username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUserExists
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     string(models.RoleClient),
	}
	id, err := s.users.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	token, err := s.jwtManager.GenerateToken(id, email, username, user.Role)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User: &models.PublicUser{
			ID:       id,
			Email:    email,
			Username: username,
			Role:     user.Role,
		},
	}, nil
}

// VerifyToken validates a session token and returns its identity claims.
func (s *Service) VerifyToken(token string) (*Claims, error) {
	return s.jwtManager.ValidateToken(token)
}
