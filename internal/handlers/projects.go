package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/untibullet/bug-tracker/internal/models"
	"go.uber.org/zap"
)

// CreateProject создает проект, создатель становится MAINTAINER
func (h *Handler) CreateProject(c echo.Context) error {
	h.logger.Info("CreateProject: начало обработки запроса")

	var req struct {
		Name    string `json:"name"`
		RepoURL string `json:"repoUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "CreateProject", err)
	}

	userID := currentUserID(c)
	project, err := h.membership.CreateWithOwner(c.Request().Context(), userID, req.Name, req.RepoURL)
	if err != nil {
		return h.respondError(c, "CreateProject", err)
	}

	h.logger.Info("CreateProject: проект создан",
		zap.String("project_id", project.ID),
		zap.String("owner_id", userID))
	return c.JSON(http.StatusCreated, map[string]interface{}{"project": project})
}

// ListProjects возвращает проекты текущего пользователя
func (h *Handler) ListProjects(c echo.Context) error {
	projects, err := h.membership.ListForUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return h.respondError(c, "ListProjects", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"projects": projects})
}

// UpdateProject меняет название или репозиторий проекта
func (h *Handler) UpdateProject(c echo.Context) error {
	projectID := c.Param("id")
	h.logger.Info("UpdateProject: начало обработки запроса", zap.String("project_id", projectID))

	var req struct {
		Name    *string `json:"name"`
		RepoURL *string `json:"repoUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "UpdateProject", err)
	}

	project, err := h.membership.UpdateProject(c.Request().Context(), projectID, currentUserID(c), models.ProjectPatch{
		Name:    req.Name,
		RepoURL: req.RepoURL,
	})
	if err != nil {
		return h.respondError(c, "UpdateProject", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"project": project})
}

// JoinProject добавляет текущего пользователя в проект как REPORTER
func (h *Handler) JoinProject(c echo.Context) error {
	projectID := c.Param("id")
	userID := currentUserID(c)
	h.logger.Info("JoinProject: вступление в проект",
		zap.String("project_id", projectID),
		zap.String("user_id", userID))

	membership, err := h.membership.Join(c.Request().Context(), projectID, userID)
	if err != nil {
		return h.respondError(c, "JoinProject", err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"membership": membership})
}
