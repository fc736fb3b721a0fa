package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/untibullet/bug-tracker/internal/github"
	"github.com/untibullet/bug-tracker/internal/models"
	"github.com/untibullet/bug-tracker/internal/repository"
	"go.uber.org/zap"
)

// MembershipService отвечает на вопрос "кем пользователь является в проекте"
// и управляет проектами и членством в них
type MembershipService struct {
	store ProjectStore
	log   *zap.Logger
}

func NewMembershipService(store ProjectStore, log *zap.Logger) *MembershipService {
	return &MembershipService{store: store, log: log}
}

// GetRole возвращает роль пользователя в проекте.
// Если пользователь не участник, возвращается ErrNotAMember, если проекта нет - ErrProjectNotFound.
func (s *MembershipService) GetRole(ctx context.Context, projectID, userID string) (models.Role, error) {
	if !validID(projectID) {
		return "", ErrProjectNotFound
	}

	m, err := s.store.GetMembership(ctx, projectID, userID)
	if err == nil {
		return m.Role, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", WrapError(ErrInternal, err)
	}

	if _, err := s.getProject(ctx, projectID); err != nil {
		return "", err
	}
	return "", ErrNotAMember
}

// RequireRole проверяет, что пользователь участник проекта с одной из ролей roles
func (s *MembershipService) RequireRole(ctx context.Context, projectID, userID string, roles ...models.Role) (models.Role, error) {
	role, err := s.GetRole(ctx, projectID, userID)
	if err != nil {
		return "", err
	}
	if !slices.Contains(roles, role) {
		s.log.Debug("role check failed",
			zap.String("project_id", projectID),
			zap.String("user_id", userID),
			zap.String("role", string(role)))
		return "", ErrInsufficientRole
	}
	return role, nil
}

// Join добавляет пользователя в проект как REPORTER.
// Если пользователь уже участник с любой ролью, возвращается ErrAlreadyMember, роль не меняется.
func (s *MembershipService) Join(ctx context.Context, projectID, userID string) (*models.ProjectMember, error) {
	if !validID(projectID) {
		return nil, ErrProjectNotFound
	}
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}

	m, err := s.store.AddMember(ctx, projectID, userID, models.RoleReporter)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return nil, s.alreadyMember(ctx, projectID, userID)
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProjectNotFound
		}
		return nil, WrapError(ErrInternal, err)
	}

	s.log.Info("user joined project",
		zap.String("project_id", projectID),
		zap.String("user_id", userID),
		zap.String("role", string(m.Role)))
	return m, nil
}

// alreadyMember формирует ошибку конфликта с указанием существующей роли
func (s *MembershipService) alreadyMember(ctx context.Context, projectID, userID string) error {
	existing, err := s.store.GetMembership(ctx, projectID, userID)
	if err != nil {
		return ErrAlreadyMember
	}
	return withMessage(ErrAlreadyMember, fmt.Sprintf("Already a member (%s).", existing.Role), nil)
}

// CreateWithOwner создает проект; создатель становится MAINTAINER в той же транзакции
func (s *MembershipService) CreateWithOwner(ctx context.Context, userID, name, repoURL string) (*models.Project, error) {
	name, repoURL = strings.TrimSpace(name), strings.TrimSpace(repoURL)
	if name == "" || repoURL == "" {
		return nil, withMessage(ErrInvalidInput, "name and repoUrl are required.", nil)
	}
	if _, err := github.ParseRepoURL(repoURL); err != nil {
		return nil, verificationError("repoUrl", err)
	}

	project, err := s.store.CreateProjectWithOwner(ctx, name, repoURL, userID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, ErrUserNotFound
		}
		return nil, WrapError(ErrInternal, err)
	}

	s.log.Info("project created",
		zap.String("project_id", project.ID),
		zap.String("owner_id", userID),
		zap.String("repo_url", repoURL))
	return project, nil
}

// UpdateProject меняет название и/или репозиторий проекта; доступно только MAINTAINER
func (s *MembershipService) UpdateProject(ctx context.Context, projectID, userID string, patch models.ProjectPatch) (*models.Project, error) {
	if _, err := s.RequireRole(ctx, projectID, userID, models.RoleMaintainer); err != nil {
		return nil, err
	}

	patch.Name = trimmedOrNil(patch.Name)
	patch.RepoURL = trimmedOrNil(patch.RepoURL)
	if patch.Name == nil && patch.RepoURL == nil {
		return nil, withMessage(ErrInvalidInput, "Provide at least one field: name or repoUrl.", nil)
	}
	if patch.RepoURL != nil {
		if _, err := github.ParseRepoURL(*patch.RepoURL); err != nil {
			return nil, verificationError("repoUrl", err)
		}
	}

	project, err := s.store.UpdateProject(ctx, projectID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, WrapError(ErrInternal, err)
	}
	return project, nil
}

// ListForUser возвращает проекты пользователя с его ролью в каждом
func (s *MembershipService) ListForUser(ctx context.Context, userID string) ([]models.UserProject, error) {
	projects, err := s.store.ListUserProjects(ctx, userID)
	if err != nil {
		return nil, WrapError(ErrInternal, err)
	}
	return projects, nil
}

// Project возвращает проект по ID
func (s *MembershipService) Project(ctx context.Context, projectID string) (*models.Project, error) {
	if !validID(projectID) {
		return nil, ErrProjectNotFound
	}
	return s.getProject(ctx, projectID)
}

func (s *MembershipService) getProject(ctx context.Context, projectID string) (*models.Project, error) {
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, WrapError(ErrInternal, err)
	}
	return p, nil
}

// validID сообщает, похож ли идентификатор на UUID; иначе запись заведомо не существует
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
