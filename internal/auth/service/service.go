// Package service implements user registration and login.
package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck/internal/auth/token"
	"github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/common/logger"
	"github.com/taskdeck/taskdeck/internal/task/models"
	"github.com/taskdeck/taskdeck/internal/task/repository"
)

// Service handles user accounts and credentials.
type Service struct {
	repo       repository.Repository
	tokens     *token.Manager
	bcryptCost int
	logger     *logger.Logger
}

// NewService creates a new auth service. A bcryptCost of 0 selects
// bcrypt.DefaultCost.
func NewService(repo repository.Repository, tokens *token.Manager, bcryptCost int, log *logger.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Register creates a new user account and returns the user with a signed
// token. Email uniqueness is case-insensitive.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, "", errors.Conflict("Email is already in use")
	} else if !errors.IsNotFound(err) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", errors.InternalError("failed to hash password", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", errors.InternalError("failed to issue token", err)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))

	return user, signed, nil
}

// Login verifies credentials and returns the user with a signed token. Both
// an unknown email and a wrong password produce the same unauthorized error.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, "", errors.Unauthorized("Invalid email or password")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.Unauthorized("Invalid email or password")
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", errors.InternalError("failed to issue token", err)
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))

	return user, signed, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}
