package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/untibullet/bug-tracker/internal/models"
)

// CreateUser создает пользователя; при занятом email возвращает ErrAlreadyExists
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string, name *string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}

	query := `
		INSERT INTO users (id, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query, user.ID, user.Email, user.PasswordHash, user.Name).Scan(&user.CreatedAt)
	if err != nil {
		if errors.Is(handleDBError(err), ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail получает пользователя вместе с хешем пароля
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, password_hash, name, created_at FROM users WHERE email = $1`
	return r.getUser(ctx, query, email)
}

// GetUserByID получает пользователя по ID
func (r *Repository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT id, email, password_hash, name, created_at FROM users WHERE id = $1`
	return r.getUser(ctx, query, userID)
}

func (r *Repository) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(handleDBError(err), ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
