package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/untibullet/bug-tracker/internal/models"
)

// CreateProjectWithOwner создает проект и членство MAINTAINER для создателя в одной транзакции
func (r *Repository) CreateProjectWithOwner(ctx context.Context, name, repoURL, ownerID string) (*models.Project, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	project := &models.Project{
		ID:              uuid.NewString(),
		Name:            name,
		RepoURL:         repoURL,
		CreatedByUserID: ownerID,
	}

	projectQuery := `
		INSERT INTO projects (id, name, repo_url, created_by_user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, projectQuery, project.ID, name, repoURL, ownerID).Scan(&project.CreatedAt)
	if err != nil {
		if errors.Is(handleDBError(err), ErrInvalidInput) {
			return nil, ErrInvalidInput
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	owner := models.ProjectMember{
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      models.RoleMaintainer,
	}
	memberQuery := `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at
	`
	err = tx.QueryRow(ctx, memberQuery, owner.ProjectID, owner.UserID, owner.Role).Scan(&owner.JoinedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner membership: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	project.Members = []models.ProjectMember{owner}
	return project, nil
}

// GetProject получает проект по ID
func (r *Repository) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	query := `
		SELECT id, name, repo_url, created_by_user_id, created_at
		FROM projects
		WHERE id = $1
	`
	var p models.Project
	err := r.pool.QueryRow(ctx, query, projectID).Scan(
		&p.ID, &p.Name, &p.RepoURL, &p.CreatedByUserID, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(handleDBError(err), ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// UpdateProject обновляет заданные поля проекта
func (r *Repository) UpdateProject(ctx context.Context, projectID string, patch models.ProjectPatch) (*models.Project, error) {
	query := `
		UPDATE projects
		SET name = COALESCE($2, name), repo_url = COALESCE($3, repo_url)
		WHERE id = $1
		RETURNING id, name, repo_url, created_by_user_id, created_at
	`
	var p models.Project
	err := r.pool.QueryRow(ctx, query, projectID, patch.Name, patch.RepoURL).Scan(
		&p.ID, &p.Name, &p.RepoURL, &p.CreatedByUserID, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(handleDBError(err), ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &p, nil
}

// ListUserProjects получает проекты, в которых состоит пользователь, вместе с его ролью
func (r *Repository) ListUserProjects(ctx context.Context, userID string) ([]models.UserProject, error) {
	query := `
		SELECT p.id, p.name, p.repo_url, p.created_by_user_id, p.created_at, pm.role
		FROM projects p
		JOIN project_members pm ON pm.project_id = p.id
		WHERE pm.user_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.UserProject, 0)
	for rows.Next() {
		var up models.UserProject
		if err := rows.Scan(&up.ID, &up.Name, &up.RepoURL, &up.CreatedByUserID, &up.CreatedAt, &up.Role); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, up)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// GetMembership получает членство пользователя в проекте; ErrNotFound если его нет
func (r *Repository) GetMembership(ctx context.Context, projectID, userID string) (*models.ProjectMember, error) {
	query := `
		SELECT project_id, user_id, role, joined_at
		FROM project_members
		WHERE project_id = $1 AND user_id = $2
	`
	var m models.ProjectMember
	err := r.pool.QueryRow(ctx, query, projectID, userID).Scan(&m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(handleDBError(err), ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &m, nil
}

// AddMember добавляет пользователя в проект с заданной ролью.
// Уникальность пары (проект, пользователь) обеспечивается первичным ключом,
// поэтому при гонке второй запрос получит ErrAlreadyExists.
func (r *Repository) AddMember(ctx context.Context, projectID, userID string, role models.Role) (*models.ProjectMember, error) {
	if !role.Valid() {
		return nil, ErrInvalidInput
	}

	m := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	query := `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at
	`
	err := r.pool.QueryRow(ctx, query, projectID, userID, role).Scan(&m.JoinedAt)
	if err != nil {
		switch mapped := handleDBError(err); {
		case errors.Is(mapped, ErrAlreadyExists):
			return nil, ErrAlreadyExists
		case errors.Is(mapped, ErrInvalidInput):
			// нарушение внешнего ключа: проекта не существует
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return m, nil
}
