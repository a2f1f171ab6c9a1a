package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tenco/blog/models"
	"github.com/tenco/blog/repositories"
	"github.com/tenco/blog/utils"
)

// JoinInput is the registration form after binding.
type JoinInput struct {
	Username string
	Password string
	Email    string
}

// LoginInput carries the submitted credentials.
type LoginInput struct {
	Username string
	Password string
}

// UserService registers users and checks their credentials.
type UserService struct {
	db     *gorm.DB
	users  *repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a UserService backed by users.
func NewUserService(db *gorm.DB, users *repositories.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{db: db, users: users, logger: logger.Named("user")}
}

// Join registers a new user. Usernames are unique.
func (s *UserService) Join(ctx context.Context, in JoinInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	s.logger.Info("user join start", zap.String("username", username))
	if username == "" {
		return nil, invalid("username", "must not be blank")
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, invalid("password", "must not be blank")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		existing, err := users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return invalid("username", "is already taken")
		}
		return users.Create(ctx, user)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent join took the name between the lookup and the insert
		s.logger.Warn("join lost username race", zap.String("username", username))
		return nil, invalid("username", "is already taken")
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("user joined", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login checks credentials and returns the identity to put in the session.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.SessionUser, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, in.Password) {
		s.logger.Warn("login rejected", zap.String("username", in.Username))
		return nil, ErrInvalidCredentials
	}
	return models.SessionUserOf(user), nil
}
