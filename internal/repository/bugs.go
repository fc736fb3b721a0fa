package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/untibullet/bug-tracker/internal/models"
)

const bugColumns = `id, project_id, created_by_user_id, assigned_to_user_id, severity, priority,
	description, commit_url_reported, status, created_at`

func scanBug(row pgx.Row, b *models.Bug) error {
	return row.Scan(
		&b.ID, &b.ProjectID, &b.CreatedByUserID, &b.AssignedToUserID, &b.Severity, &b.Priority,
		&b.Description, &b.CommitURLReported, &b.Status, &b.CreatedAt,
	)
}

// CreateBug создает баг в статусе OPEN без исполнителя
func (r *Repository) CreateBug(ctx context.Context, nb models.NewBug) (*models.Bug, error) {
	query := `
		INSERT INTO bugs (id, project_id, created_by_user_id, severity, priority,
			description, commit_url_reported, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + bugColumns

	var bug models.Bug
	err := scanBug(r.pool.QueryRow(ctx, query,
		uuid.NewString(), nb.ProjectID, nb.ReporterID, nb.Severity, nb.Priority,
		nb.Description, nb.CommitURLReported, models.StatusOpen,
	), &bug)
	if err != nil {
		if errors.Is(handleDBError(err), ErrInvalidInput) {
			return nil, ErrInvalidInput
		}
		return nil, fmt.Errorf("failed to create bug: %w", err)
	}
	return &bug, nil
}

// GetBug получает баг по ID
func (r *Repository) GetBug(ctx context.Context, bugID string) (*models.Bug, error) {
	query := `SELECT ` + bugColumns + ` FROM bugs WHERE id = $1`

	var bug models.Bug
	if err := scanBug(r.pool.QueryRow(ctx, query, bugID), &bug); err != nil {
		if errors.Is(handleDBError(err), ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bug: %w", err)
	}
	return &bug, nil
}

// AssignBug закрепляет баг за пользователем и переводит его в ASSIGNED.
// Обновление условное: выигрывает первый, повторный вызов тем же пользователем идемпотентен.
// Запись в историю статусов не добавляется.
func (r *Repository) AssignBug(ctx context.Context, bugID, userID string) (*models.Bug, error) {
	query := `
		UPDATE bugs
		SET assigned_to_user_id = $2, status = $3
		WHERE id = $1 AND (assigned_to_user_id IS NULL OR assigned_to_user_id = $2)
		RETURNING ` + bugColumns

	var bug models.Bug
	err := scanBug(r.pool.QueryRow(ctx, query, bugID, userID, models.StatusAssigned), &bug)
	if err == nil {
		return &bug, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to assign bug: %w", err)
	}

	// Ни одна строка не обновилась: бага нет либо он уже закреплен за другим
	if _, getErr := r.GetBug(ctx, bugID); getErr != nil {
		return nil, getErr
	}
	return nil, ErrAlreadyAssigned
}

// ApplyStatusChange переводит баг в новый статус и добавляет запись в историю.
// Строка бага блокируется до конца транзакции, поэтому проверка исполнителя и обе записи атомарны.
func (r *Repository) ApplyStatusChange(ctx context.Context, change models.StatusChange) (*models.Bug, *models.BugStatusUpdate, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current models.Bug
	lockQuery := `SELECT ` + bugColumns + ` FROM bugs WHERE id = $1 FOR UPDATE`
	if err := scanBug(tx.QueryRow(ctx, lockQuery, change.BugID), &current); err != nil {
		if errors.Is(handleDBError(err), ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to lock bug: %w", err)
	}

	if current.AssignedElsewhere(change.ActorID) {
		return nil, nil, ErrAssignedElsewhere
	}

	assignee := models.NextAssignee(current.AssignedToUserID, change.ActorID, change.Status)

	var bug models.Bug
	updateQuery := `
		UPDATE bugs
		SET status = $2, assigned_to_user_id = $3
		WHERE id = $1
		RETURNING ` + bugColumns
	if err := scanBug(tx.QueryRow(ctx, updateQuery, change.BugID, change.Status, assignee), &bug); err != nil {
		return nil, nil, fmt.Errorf("failed to update bug status: %w", err)
	}

	update := &models.BugStatusUpdate{
		ID:              uuid.NewString(),
		BugID:           change.BugID,
		Status:          change.Status,
		FixCommitURL:    change.FixCommitURL,
		Comment:         change.Comment,
		CreatedByUserID: change.ActorID,
	}
	insertQuery := `
		INSERT INTO bug_status_updates (id, bug_id, status, fix_commit_url, comment, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, insertQuery,
		update.ID, update.BugID, update.Status, update.FixCommitURL, update.Comment, update.CreatedByUserID,
	).Scan(&update.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create status update: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &bug, update, nil
}

// ListProjectBugs получает баги проекта от новых к старым вместе с автором и исполнителем
func (r *Repository) ListProjectBugs(ctx context.Context, projectID string) ([]models.BugWithPeople, error) {
	query := `
		SELECT b.id, b.project_id, b.created_by_user_id, b.assigned_to_user_id, b.severity, b.priority,
			b.description, b.commit_url_reported, b.status, b.created_at,
			cu.email, cu.name,
			au.email, au.name
		FROM bugs b
		JOIN users cu ON cu.id = b.created_by_user_id
		LEFT JOIN users au ON au.id = b.assigned_to_user_id
		WHERE b.project_id = $1
		ORDER BY b.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bugs: %w", err)
	}
	defer rows.Close()

	bugs := make([]models.BugWithPeople, 0)
	for rows.Next() {
		var (
			b             models.BugWithPeople
			assigneeEmail *string
			assigneeName  *string
		)
		err := rows.Scan(
			&b.ID, &b.ProjectID, &b.CreatedByUserID, &b.AssignedToUserID, &b.Severity, &b.Priority,
			&b.Description, &b.CommitURLReported, &b.Status, &b.CreatedAt,
			&b.CreatedBy.Email, &b.CreatedBy.Name,
			&assigneeEmail, &assigneeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bug: %w", err)
		}
		b.CreatedBy.ID = b.CreatedByUserID
		if b.AssignedToUserID != nil && assigneeEmail != nil {
			b.AssignedTo = &models.UserSummary{
				ID:    *b.AssignedToUserID,
				Email: *assigneeEmail,
				Name:  assigneeName,
			}
		}
		bugs = append(bugs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bugs: %w", err)
	}

	return bugs, nil
}

// ListStatusUpdates получает историю статусов бага в хронологическом порядке
func (r *Repository) ListStatusUpdates(ctx context.Context, bugID string) ([]models.BugStatusUpdate, error) {
	query := `
		SELECT id, bug_id, status, fix_commit_url, comment, created_by_user_id, created_at
		FROM bug_status_updates
		WHERE bug_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, bugID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status updates: %w", err)
	}
	defer rows.Close()

	updates := make([]models.BugStatusUpdate, 0)
	for rows.Next() {
		var u models.BugStatusUpdate
		if err := rows.Scan(&u.ID, &u.BugID, &u.Status, &u.FixCommitURL, &u.Comment, &u.CreatedByUserID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status update: %w", err)
		}
		updates = append(updates, u)
	}

	return updates, rows.Err()
}
