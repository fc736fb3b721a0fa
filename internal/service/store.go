package service

import (
	"context"

	"github.com/untibullet/bug-tracker/internal/github"
	"github.com/untibullet/bug-tracker/internal/models"
)

// UserStore хранит учетные записи
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string, name *string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// ProjectStore хранит проекты и членство в них
type ProjectStore interface {
	CreateProjectWithOwner(ctx context.Context, name, repoURL, ownerID string) (*models.Project, error)
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID string, patch models.ProjectPatch) (*models.Project, error)
	ListUserProjects(ctx context.Context, userID string) ([]models.UserProject, error)
	GetMembership(ctx context.Context, projectID, userID string) (*models.ProjectMember, error)
	AddMember(ctx context.Context, projectID, userID string, role models.Role) (*models.ProjectMember, error)
}

// BugStore хранит баги и историю их статусов
type BugStore interface {
	CreateBug(ctx context.Context, nb models.NewBug) (*models.Bug, error)
	GetBug(ctx context.Context, bugID string) (*models.Bug, error)
	AssignBug(ctx context.Context, bugID, userID string) (*models.Bug, error)
	ApplyStatusChange(ctx context.Context, change models.StatusChange) (*models.Bug, *models.BugStatusUpdate, error)
	ListProjectBugs(ctx context.Context, projectID string) ([]models.BugWithPeople, error)
	ListStatusUpdates(ctx context.Context, bugID string) ([]models.BugStatusUpdate, error)
}

// CommitVerifier проверяет ссылки на коммиты во внешней системе контроля версий
type CommitVerifier interface {
	ValidateCommit(ctx context.Context, repoURL, commitURL string) (*github.CommitInfo, error)
}

// SourceControl объединяет все запросы к внешней системе контроля версий
type SourceControl interface {
	CommitVerifier
	FetchRepoInfo(ctx context.Context, repoURL string) (*github.RepoInfo, error)
	ListCommits(ctx context.Context, repoURL string, limit int) ([]github.CommitInfo, error)
}
