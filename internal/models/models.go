// models/models.go
package models

import "time"

// User представляет зарегистрированного пользователя
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         *string   `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// UserSummary представляет краткую информацию о пользователе без учетных данных
type UserSummary struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// Project представляет проект, привязанный к внешнему репозиторию
type Project struct {
	ID              string          `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	RepoURL         string          `json:"repoUrl" db:"repo_url"`
	CreatedByUserID string          `json:"createdByUserId" db:"created_by_user_id"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	Members         []ProjectMember `json:"members,omitempty" db:"-"`
}

// ProjectPatch содержит изменяемые поля проекта; nil означает "не менять"
type ProjectPatch struct {
	Name    *string
	RepoURL *string
}

// UserProject представляет проект вместе с ролью текущего пользователя в нем
type UserProject struct {
	Project
	Role Role `json:"role"`
}

// ProjectMember представляет участие пользователя в проекте
type ProjectMember struct {
	ProjectID string    `json:"projectId" db:"project_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Role      Role      `json:"role" db:"role"`
	JoinedAt  time.Time `json:"joinedAt" db:"joined_at"`
}

// Bug представляет баг-репорт внутри проекта
type Bug struct {
	ID                string    `json:"id" db:"id"`
	ProjectID         string    `json:"projectId" db:"project_id"`
	CreatedByUserID   string    `json:"createdByUserId" db:"created_by_user_id"`
	AssignedToUserID  *string   `json:"assignedToUserId" db:"assigned_to_user_id"`
	Severity          Severity  `json:"severity" db:"severity"`
	Priority          Priority  `json:"priority" db:"priority"`
	Description       string    `json:"description" db:"description"`
	CommitURLReported string    `json:"commitUrlReported" db:"commit_url_reported"`
	Status            Status    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// BugWithPeople представляет баг с краткой информацией об авторе и исполнителе
type BugWithPeople struct {
	Bug
	CreatedBy  UserSummary  `json:"createdBy"`
	AssignedTo *UserSummary `json:"assignedTo"`
}

// BugStatusUpdate представляет запись в истории статусов бага.
// Записи только добавляются и никогда не изменяются.
type BugStatusUpdate struct {
	ID              string    `json:"id" db:"id"`
	BugID           string    `json:"bugId" db:"bug_id"`
	Status          Status    `json:"status" db:"status"`
	FixCommitURL    *string   `json:"fixCommitUrl" db:"fix_commit_url"`
	Comment         *string   `json:"comment" db:"comment"`
	CreatedByUserID string    `json:"createdByUserId" db:"created_by_user_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// NewBug содержит данные для создания бага
type NewBug struct {
	ProjectID         string
	ReporterID        string
	Severity          Severity
	Priority          Priority
	Description       string
	CommitURLReported string
}

// StatusChange содержит данные для перевода бага в новый статус
type StatusChange struct {
	BugID        string
	ActorID      string
	Status       Status
	FixCommitURL *string
	Comment      *string
}
