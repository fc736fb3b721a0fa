package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/untibullet/bug-tracker/internal/github"
	"github.com/untibullet/bug-tracker/internal/models"
)

// MockStore мок хранилища для тестов, реализует UserStore, ProjectStore и BugStore
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateUser(ctx context.Context, email, passwordHash string, name *string) (*models.User, error) {
	args := m.Called(ctx, email, passwordHash, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) CreateProjectWithOwner(ctx context.Context, name, repoURL, ownerID string) (*models.Project, error) {
	args := m.Called(ctx, name, repoURL, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockStore) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockStore) UpdateProject(ctx context.Context, projectID string, patch models.ProjectPatch) (*models.Project, error) {
	args := m.Called(ctx, projectID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockStore) ListUserProjects(ctx context.Context, userID string) ([]models.UserProject, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserProject), args.Error(1)
}

func (m *MockStore) GetMembership(ctx context.Context, projectID, userID string) (*models.ProjectMember, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectMember), args.Error(1)
}

func (m *MockStore) AddMember(ctx context.Context, projectID, userID string, role models.Role) (*models.ProjectMember, error) {
	args := m.Called(ctx, projectID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectMember), args.Error(1)
}

func (m *MockStore) CreateBug(ctx context.Context, nb models.NewBug) (*models.Bug, error) {
	args := m.Called(ctx, nb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bug), args.Error(1)
}

func (m *MockStore) GetBug(ctx context.Context, bugID string) (*models.Bug, error) {
	args := m.Called(ctx, bugID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bug), args.Error(1)
}

func (m *MockStore) AssignBug(ctx context.Context, bugID, userID string) (*models.Bug, error) {
	args := m.Called(ctx, bugID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bug), args.Error(1)
}

func (m *MockStore) ApplyStatusChange(ctx context.Context, change models.StatusChange) (*models.Bug, *models.BugStatusUpdate, error) {
	args := m.Called(ctx, change)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Bug), args.Get(1).(*models.BugStatusUpdate), args.Error(2)
}

func (m *MockStore) ListProjectBugs(ctx context.Context, projectID string) ([]models.BugWithPeople, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BugWithPeople), args.Error(1)
}

func (m *MockStore) ListStatusUpdates(ctx context.Context, bugID string) ([]models.BugStatusUpdate, error) {
	args := m.Called(ctx, bugID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BugStatusUpdate), args.Error(1)
}

// MockSourceControl мок клиента GitHub
type MockSourceControl struct {
	mock.Mock
}

func (m *MockSourceControl) ValidateCommit(ctx context.Context, repoURL, commitURL string) (*github.CommitInfo, error) {
	args := m.Called(ctx, repoURL, commitURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.CommitInfo), args.Error(1)
}

func (m *MockSourceControl) FetchRepoInfo(ctx context.Context, repoURL string) (*github.RepoInfo, error) {
	args := m.Called(ctx, repoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.RepoInfo), args.Error(1)
}

func (m *MockSourceControl) ListCommits(ctx context.Context, repoURL string, limit int) ([]github.CommitInfo, error) {
	args := m.Called(ctx, repoURL, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.CommitInfo), args.Error(1)
}

// MockTokens мок выпуска токенов
type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) Issue(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}
