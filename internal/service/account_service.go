package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/untibullet/bug-tracker/internal/auth"
	"github.com/untibullet/bug-tracker/internal/models"
	"github.com/untibullet/bug-tracker/internal/repository"
	"go.uber.org/zap"
)

// bcrypt не принимает пароли длиннее 72 байт
const maxPasswordBytes = 72

// TokenIssuer выпускает токен доступа для пользователя
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Session содержит пользователя и выпущенный для него токен
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AccountService struct {
	users  UserStore
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAccountService(users UserStore, tokens TokenIssuer, log *zap.Logger) *AccountService {
	return &AccountService{users: users, tokens: tokens, log: log}
}

// Register создает пользователя и сразу выпускает для него токен
func (s *AccountService) Register(ctx context.Context, email, password string, name *string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, withMessage(ErrInvalidInput, "Email and password are required.", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, withMessage(ErrInvalidInput, "Email is malformed.", err)
	}
	if len(password) > maxPasswordBytes {
		return nil, withMessage(ErrInvalidInput, "Password is too long.", nil)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, WrapError(ErrInternal, err)
	}

	user, err := s.users.CreateUser(ctx, email, hash, trimmedOrNil(name))
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, WrapError(ErrInternal, err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	return s.session(user)
}

// Login проверяет пароль и выпускает токен. Неизвестный email и неверный пароль неразличимы.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, withMessage(ErrInvalidInput, "Email and password are required.", nil)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, WrapError(ErrInternal, err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

// Me возвращает пользователя по ID из проверенного токена
func (s *AccountService) Me(ctx context.Context, userID string) (*models.User, error) {
	if !validID(userID) {
		return nil, ErrUserNotFound
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, WrapError(ErrInternal, err)
	}
	return user, nil
}

func (s *AccountService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, WrapError(ErrInternal, err)
	}
	return &Session{User: user, Token: token}, nil
}
