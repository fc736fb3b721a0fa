package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/untibullet/bug-tracker/internal/github"
	"github.com/untibullet/bug-tracker/internal/models"
	"github.com/untibullet/bug-tracker/internal/service"
	"go.uber.org/zap"
)

// Код ошибки для ответов, не прошедших через доменный слой
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// AccountService регистрирует и аутентифицирует пользователей
type AccountService interface {
	Register(ctx context.Context, email, password string, name *string) (*service.Session, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

// MembershipService управляет проектами и членством
type MembershipService interface {
	CreateWithOwner(ctx context.Context, userID, name, repoURL string) (*models.Project, error)
	Join(ctx context.Context, projectID, userID string) (*models.ProjectMember, error)
	UpdateProject(ctx context.Context, projectID, userID string, patch models.ProjectPatch) (*models.Project, error)
	ListForUser(ctx context.Context, userID string) ([]models.UserProject, error)
}

// BugService управляет жизненным циклом багов
type BugService interface {
	Report(ctx context.Context, in service.ReportInput) (*models.Bug, error)
	AssignToSelf(ctx context.Context, bugID, userID string) (*models.Bug, error)
	UpdateStatus(ctx context.Context, in service.StatusInput) (*models.Bug, *models.BugStatusUpdate, error)
	ListForProject(ctx context.Context, projectID, userID string) ([]models.BugWithPeople, error)
	History(ctx context.Context, bugID, userID string) ([]models.BugStatusUpdate, error)
}

// IntegrationService отдает сведения из GitHub
type IntegrationService interface {
	RepoInfo(ctx context.Context, repoURL string) (*github.RepoInfo, error)
	ValidateCommit(ctx context.Context, repoURL, commitURL string) (*github.CommitInfo, error)
	Commits(ctx context.Context, repoURL string, limit int) ([]github.CommitInfo, error)
}

// TokenVerifier проверяет токен доступа и возвращает ID пользователя
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type Handler struct {
	accounts     AccountService
	membership   MembershipService
	bugs         BugService
	integrations IntegrationService
	tokens       TokenVerifier
	logger       *zap.Logger
}

// New создает новый экземпляр обработчика
func New(
	accounts AccountService,
	membership MembershipService,
	bugs BugService,
	integrations IntegrationService,
	tokens TokenVerifier,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		accounts:     accounts,
		membership:   membership,
		bugs:         bugs,
		integrations: integrations,
		tokens:       tokens,
		logger:       logger,
	}
}

// ErrorResponse представляет структуру ошибки API.
// Message дублирует текст ошибки на верхнем уровне для клиентов, читающих только его.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// newErrorResponse создает стандартный ответ с ошибкой
func newErrorResponse(code, message string) ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Message = message
	return resp
}

// statusForKind выбирает HTTP статус по виду доменной ошибки
func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindExternalValidation:
		return http.StatusBadRequest
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError пишет ответ с ошибкой. Внутренние ошибки логируются, клиент получает только общий текст.
func (h *Handler) respondError(c echo.Context, op string, err error) error {
	var domainErr *service.DomainError
	if !errors.As(err, &domainErr) || domainErr.Kind == service.KindInternal {
		h.logger.Error(op+": внутренняя ошибка", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, newErrorResponse(ErrCodeInternal, "internal server error"))
	}

	h.logger.Warn(op+": запрос отклонен",
		zap.String("code", domainErr.Code),
		zap.String("message", domainErr.Message))
	return c.JSON(statusForKind(domainErr.Kind), newErrorResponse(domainErr.Code, domainErr.Message))
}

// badRequest отвечает 400 при невалидном теле запроса
func (h *Handler) badRequest(c echo.Context, op string, err error) error {
	h.logger.Warn(op+": ошибка парсинга тела запроса", zap.Error(err))
	return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeBadRequest, "invalid request body"))
}

// Health отвечает, что сервис жив
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterRoutes регистрирует все маршруты API
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	// Auth
	authGroup := e.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.GET("/me", h.Me, h.AuthRequired)

	// Projects
	projects := e.Group("/projects", h.AuthRequired)
	projects.POST("", h.CreateProject)
	projects.GET("", h.ListProjects)
	projects.PATCH("/:id", h.UpdateProject)
	projects.POST("/:id/join-tester", h.JoinProject)
	projects.POST("/:id/bugs", h.ReportBug)
	projects.GET("/:id/bugs", h.ListBugs)

	// Bugs
	bugs := e.Group("/bugs", h.AuthRequired)
	bugs.POST("/:id/assign-to-me", h.AssignToMe)
	bugs.POST("/:id/status", h.UpdateBugStatus)
	bugs.GET("/:id/history", h.BugHistory)

	// Integrations
	integrations := e.Group("/integrations/github")
	integrations.GET("/repo-info", h.RepoInfo)
	integrations.GET("/validate-commit", h.ValidateCommit)
	integrations.GET("/commits", h.ListCommits)
}
