package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	userAgent = "bug-tracker-service"

	defaultCommitsLimit = 10
	maxCommitsLimit     = 30
)

// ErrUnavailable возвращается, когда API GitHub недоступен (сеть, таймаут, некорректный ответ).
// Вызывающий код должен считать такую проверку непройденной.
var ErrUnavailable = errors.New("GitHub API unavailable")

// ProviderError описывает ответ GitHub с неуспешным HTTP статусом
type ProviderError struct {
	Reason     string
	StatusCode int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Reason, e.StatusCode)
}

// Config настраивает клиент
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	RPS     float64
}

// Client обращается к REST API GitHub только на чтение
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient создает клиент. Токен необязателен: без него действуют анонимные лимиты.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	token := strings.TrimSpace(cfg.Token)
	if !isASCII(token) {
		logger.Warn("GitHub token contains non-ASCII characters, requests will be anonymous")
		token = ""
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      token,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// RepoInfo содержит нормализованные сведения о репозитории
type RepoInfo struct {
	FullName        string `json:"full_name"`
	Private         bool   `json:"private"`
	HTMLURL         string `json:"html_url"`
	DefaultBranch   string `json:"default_branch"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	OpenIssuesCount int    `json:"open_issues_count"`
}

// CommitInfo содержит нормализованные сведения о коммите
type CommitInfo struct {
	SHA     string    `json:"sha"`
	HTMLURL string    `json:"html_url"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

type apiCommit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

func (c apiCommit) normalize() CommitInfo {
	return CommitInfo{
		SHA:     c.SHA,
		HTMLURL: c.HTMLURL,
		Message: c.Commit.Message,
		Author:  c.Commit.Author.Name,
		Date:    c.Commit.Author.Date,
	}
}

// FetchRepoInfo получает сведения о репозитории
func (c *Client) FetchRepoInfo(ctx context.Context, repoURL string) (*RepoInfo, error) {
	repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	var info RepoInfo
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(repo.Owner), url.PathEscape(repo.Repo))
	if err := c.get(ctx, path, "repository not found or not accessible", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ValidateCommit проверяет, что коммит по ссылке commitURL существует в репозитории repoURL.
// Обе ссылки разбираются до запроса; коммит из другого репозитория отклоняется без запроса.
func (c *Client) ValidateCommit(ctx context.Context, repoURL, commitURL string) (*CommitInfo, error) {
	repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	commit, err := ParseCommitURL(commitURL)
	if err != nil {
		return nil, err
	}
	if !commit.RepoRef.Matches(repo) {
		return nil, fmt.Errorf("%w: commit belongs to %s, project repository is %s", ErrInvalidFormat, commit.RepoRef, repo)
	}

	var raw apiCommit
	path := fmt.Sprintf("/repos/%s/%s/commits/%s",
		url.PathEscape(repo.Owner), url.PathEscape(repo.Repo), url.PathEscape(commit.Hash))
	if err := c.get(ctx, path, "commit not found in repo", &raw); err != nil {
		return nil, err
	}

	info := raw.normalize()
	return &info, nil
}

// ListCommits получает последние коммиты репозитория; limit ограничивается диапазоном 1..30,
// нулевое или отрицательное значение заменяется значением по умолчанию
func (c *Client) ListCommits(ctx context.Context, repoURL string, limit int) ([]CommitInfo, error) {
	repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	var raw []apiCommit
	path := fmt.Sprintf("/repos/%s/%s/commits?per_page=%s",
		url.PathEscape(repo.Owner), url.PathEscape(repo.Repo), strconv.Itoa(ClampLimit(limit)))
	if err := c.get(ctx, path, "could not list commits", &raw); err != nil {
		return nil, err
	}

	commits := make([]CommitInfo, 0, len(raw))
	for _, rc := range raw {
		commits = append(commits, rc.normalize())
	}
	return commits, nil
}

// ClampLimit приводит размер страницы коммитов к допустимому диапазону
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultCommitsLimit
	}
	return min(limit, maxCommitsLimit)
}

// get выполняет GET запрос к API и декодирует JSON ответ в out
func (c *Client) get(ctx context.Context, path, notFoundReason string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("GitHub request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("GitHub request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProviderError{Reason: notFoundReason, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
