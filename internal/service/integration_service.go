package service

import (
	"context"
	"strings"

	"github.com/untibullet/bug-tracker/internal/github"
)

// IntegrationService отдает сведения из GitHub для интерфейса; на авторизацию не влияет
type IntegrationService struct {
	scm SourceControl
}

func NewIntegrationService(scm SourceControl) *IntegrationService {
	return &IntegrationService{scm: scm}
}

func (s *IntegrationService) RepoInfo(ctx context.Context, repoURL string) (*github.RepoInfo, error) {
	if strings.TrimSpace(repoURL) == "" {
		return nil, withMessage(ErrInvalidInput, "repoUrl is required.", nil)
	}
	info, err := s.scm.FetchRepoInfo(ctx, repoURL)
	if err != nil {
		return nil, verificationError("repoUrl", err)
	}
	return info, nil
}

func (s *IntegrationService) ValidateCommit(ctx context.Context, repoURL, commitURL string) (*github.CommitInfo, error) {
	if strings.TrimSpace(repoURL) == "" || strings.TrimSpace(commitURL) == "" {
		return nil, withMessage(ErrInvalidInput, "repoUrl and commitUrl are required.", nil)
	}
	info, err := s.scm.ValidateCommit(ctx, repoURL, commitURL)
	if err != nil {
		return nil, verificationError("commitUrl", err)
	}
	return info, nil
}

func (s *IntegrationService) Commits(ctx context.Context, repoURL string, limit int) ([]github.CommitInfo, error) {
	if strings.TrimSpace(repoURL) == "" {
		return nil, withMessage(ErrInvalidInput, "repoUrl is required.", nil)
	}
	commits, err := s.scm.ListCommits(ctx, repoURL, limit)
	if err != nil {
		return nil, verificationError("repoUrl", err)
	}
	return commits, nil
}
