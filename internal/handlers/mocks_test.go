package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/untibullet/bug-tracker/internal/github"
	"github.com/untibullet/bug-tracker/internal/models"
	"github.com/untibullet/bug-tracker/internal/service"
)

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) Register(ctx context.Context, email, password string, name *string) (*service.Session, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAccounts) Login(ctx context.Context, email, password string) (*service.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAccounts) Me(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockMembership struct {
	mock.Mock
}

func (m *MockMembership) CreateWithOwner(ctx context.Context, userID, name, repoURL string) (*models.Project, error) {
	args := m.Called(ctx, userID, name, repoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockMembership) Join(ctx context.Context, projectID, userID string) (*models.ProjectMember, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectMember), args.Error(1)
}

func (m *MockMembership) UpdateProject(ctx context.Context, projectID, userID string, patch models.ProjectPatch) (*models.Project, error) {
	args := m.Called(ctx, projectID, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockMembership) ListForUser(ctx context.Context, userID string) ([]models.UserProject, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserProject), args.Error(1)
}

type MockBugs struct {
	mock.Mock
}

func (m *MockBugs) Report(ctx context.Context, in service.ReportInput) (*models.Bug, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bug), args.Error(1)
}

func (m *MockBugs) AssignToSelf(ctx context.Context, bugID, userID string) (*models.Bug, error) {
	args := m.Called(ctx, bugID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bug), args.Error(1)
}

func (m *MockBugs) UpdateStatus(ctx context.Context, in service.StatusInput) (*models.Bug, *models.BugStatusUpdate, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Bug), args.Get(1).(*models.BugStatusUpdate), args.Error(2)
}

func (m *MockBugs) ListForProject(ctx context.Context, projectID, userID string) ([]models.BugWithPeople, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BugWithPeople), args.Error(1)
}

func (m *MockBugs) History(ctx context.Context, bugID, userID string) ([]models.BugStatusUpdate, error) {
	args := m.Called(ctx, bugID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BugStatusUpdate), args.Error(1)
}

type MockIntegrations struct {
	mock.Mock
}

func (m *MockIntegrations) RepoInfo(ctx context.Context, repoURL string) (*github.RepoInfo, error) {
	args := m.Called(ctx, repoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.RepoInfo), args.Error(1)
}

func (m *MockIntegrations) ValidateCommit(ctx context.Context, repoURL, commitURL string) (*github.CommitInfo, error) {
	args := m.Called(ctx, repoURL, commitURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.CommitInfo), args.Error(1)
}

func (m *MockIntegrations) Commits(ctx context.Context, repoURL string, limit int) ([]github.CommitInfo, error) {
	args := m.Called(ctx, repoURL, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.CommitInfo), args.Error(1)
}

type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}
