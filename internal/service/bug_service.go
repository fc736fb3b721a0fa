package service

import (
	"context"
	"errors"
	"strings"

	"github.com/untibullet/bug-tracker/internal/models"
	"github.com/untibullet/bug-tracker/internal/repository"
	"go.uber.org/zap"
)

// ReportInput содержит данные нового баг-репорта
type ReportInput struct {
	ProjectID         string
	ReporterID        string
	Severity          string
	Priority          string
	Description       string
	CommitURLReported string
}

// StatusInput содержит данные для смены статуса бага
type StatusInput struct {
	BugID        string
	UserID       string
	Status       string
	FixCommitURL *string
	Comment      *string
}

// BugService реализует жизненный цикл бага OPEN -> ASSIGNED -> FIXED
// с проверкой ролей и коммитов перед каждым переходом
type BugService struct {
	bugs       BugStore
	membership *MembershipService
	verifier   CommitVerifier
	log        *zap.Logger
}

func NewBugService(bugs BugStore, membership *MembershipService, verifier CommitVerifier, log *zap.Logger) *BugService {
	return &BugService{
		bugs:       bugs,
		membership: membership,
		verifier:   verifier,
		log:        log,
	}
}

// Report создает баг в статусе OPEN. Доступно только REPORTER проекта;
// коммит, в котором найден баг, должен существовать в репозитории проекта.
func (s *BugService) Report(ctx context.Context, in ReportInput) (*models.Bug, error) {
	if _, err := s.membership.RequireRole(ctx, in.ProjectID, in.ReporterID, models.RoleReporter); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(in.Description)
	commitURL := strings.TrimSpace(in.CommitURLReported)
	if in.Severity == "" || in.Priority == "" || description == "" || commitURL == "" {
		return nil, withMessage(ErrInvalidInput, "severity, priority, description, commitUrlReported are required.", nil)
	}
	severity, err := models.ParseSeverity(in.Severity)
	if err != nil {
		return nil, withMessage(ErrInvalidInput, "severity must be one of LOW, MEDIUM, HIGH, CRITICAL.", err)
	}
	priority, err := models.ParsePriority(in.Priority)
	if err != nil {
		return nil, withMessage(ErrInvalidInput, "priority must be one of P1, P2, P3, P4.", err)
	}

	project, err := s.membership.Project(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}

	if _, err := s.verifier.ValidateCommit(ctx, project.RepoURL, commitURL); err != nil {
		s.log.Warn("reported commit rejected",
			zap.String("project_id", project.ID),
			zap.String("commit_url", commitURL),
			zap.Error(err))
		return nil, verificationError("commitUrlReported", err)
	}

	bug, err := s.bugs.CreateBug(ctx, models.NewBug{
		ProjectID:         project.ID,
		ReporterID:        in.ReporterID,
		Severity:          severity,
		Priority:          priority,
		Description:       description,
		CommitURLReported: commitURL,
	})
	if err != nil {
		return nil, WrapError(ErrInternal, err)
	}

	s.log.Info("bug reported",
		zap.String("bug_id", bug.ID),
		zap.String("project_id", bug.ProjectID),
		zap.String("reporter_id", bug.CreatedByUserID))
	return bug, nil
}

// AssignToSelf закрепляет баг за вызывающим MAINTAINER и переводит его в ASSIGNED.
// Повторный вызов тем же пользователем ничего не меняет; история статусов не пополняется.
func (s *BugService) AssignToSelf(ctx context.Context, bugID, userID string) (*models.Bug, error) {
	bug, err := s.getBug(ctx, bugID)
	if err != nil {
		return nil, err
	}
	if _, err := s.membership.RequireRole(ctx, bug.ProjectID, userID, models.RoleMaintainer); err != nil {
		return nil, err
	}

	updated, err := s.bugs.AssignBug(ctx, bugID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyAssigned):
			return nil, ErrAlreadyAssigned
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrBugNotFound
		}
		return nil, WrapError(ErrInternal, err)
	}

	s.log.Info("bug assigned", zap.String("bug_id", bugID), zap.String("assignee_id", userID))
	return updated, nil
}

// UpdateStatus переводит баг в новый статус и добавляет запись в историю.
// Для FIXED обязателен проверенный коммит с исправлением. ASSIGNED закрепляет баг за вызывающим,
// FIXED закрепляет его за вызывающим, если исполнителя еще не было.
func (s *BugService) UpdateStatus(ctx context.Context, in StatusInput) (*models.Bug, *models.BugStatusUpdate, error) {
	bug, err := s.getBug(ctx, in.BugID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.membership.RequireRole(ctx, bug.ProjectID, in.UserID, models.RoleMaintainer); err != nil {
		return nil, nil, err
	}

	if strings.TrimSpace(in.Status) == "" {
		return nil, nil, withMessage(ErrInvalidInput, "status is required.", nil)
	}
	status, err := models.ParseStatus(in.Status)
	if err != nil {
		return nil, nil, withMessage(ErrInvalidInput, "status must be one of OPEN, ASSIGNED, FIXED.", err)
	}

	fixCommitURL := trimmedOrNil(in.FixCommitURL)
	if status == models.StatusFixed && fixCommitURL == nil {
		return nil, nil, ErrMissingFixCommit
	}

	if bug.AssignedElsewhere(in.UserID) {
		return nil, nil, ErrAssignedElsewhere
	}

	if status == models.StatusFixed {
		project, err := s.membership.Project(ctx, bug.ProjectID)
		if err != nil {
			return nil, nil, err
		}
		if _, err := s.verifier.ValidateCommit(ctx, project.RepoURL, *fixCommitURL); err != nil {
			s.log.Warn("fix commit rejected",
				zap.String("bug_id", bug.ID),
				zap.String("commit_url", *fixCommitURL),
				zap.Error(err))
			return nil, nil, verificationError("fixCommitUrl", err)
		}
	}

	updated, update, err := s.bugs.ApplyStatusChange(ctx, models.StatusChange{
		BugID:        bug.ID,
		ActorID:      in.UserID,
		Status:       status,
		FixCommitURL: fixCommitURL,
		Comment:      trimmedOrNil(in.Comment),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAssignedElsewhere):
			return nil, nil, ErrAssignedElsewhere
		case errors.Is(err, repository.ErrNotFound):
			return nil, nil, ErrBugNotFound
		}
		return nil, nil, WrapError(ErrInternal, err)
	}

	s.log.Info("bug status updated",
		zap.String("bug_id", updated.ID),
		zap.String("status", string(updated.Status)),
		zap.String("author_id", in.UserID))
	return updated, update, nil
}

// ListForProject возвращает баги проекта от новых к старым; доступно только MAINTAINER
func (s *BugService) ListForProject(ctx context.Context, projectID, userID string) ([]models.BugWithPeople, error) {
	if _, err := s.membership.RequireRole(ctx, projectID, userID, models.RoleMaintainer); err != nil {
		return nil, err
	}

	bugs, err := s.bugs.ListProjectBugs(ctx, projectID)
	if err != nil {
		return nil, WrapError(ErrInternal, err)
	}
	return bugs, nil
}

// History возвращает историю статусов бага; доступно только MAINTAINER
func (s *BugService) History(ctx context.Context, bugID, userID string) ([]models.BugStatusUpdate, error) {
	bug, err := s.getBug(ctx, bugID)
	if err != nil {
		return nil, err
	}
	if _, err := s.membership.RequireRole(ctx, bug.ProjectID, userID, models.RoleMaintainer); err != nil {
		return nil, err
	}

	updates, err := s.bugs.ListStatusUpdates(ctx, bugID)
	if err != nil {
		return nil, WrapError(ErrInternal, err)
	}
	return updates, nil
}

func (s *BugService) getBug(ctx context.Context, bugID string) (*models.Bug, error) {
	if !validID(bugID) {
		return nil, ErrBugNotFound
	}
	bug, err := s.bugs.GetBug(ctx, bugID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBugNotFound
		}
		return nil, WrapError(ErrInternal, err)
	}
	return bug, nil
}
