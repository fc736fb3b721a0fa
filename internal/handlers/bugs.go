package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/untibullet/bug-tracker/internal/service"
	"go.uber.org/zap"
)

// ReportBug создает баг-репорт в проекте
func (h *Handler) ReportBug(c echo.Context) error {
	projectID := c.Param("id")
	h.logger.Info("ReportBug: начало обработки запроса", zap.String("project_id", projectID))

	var req struct {
		Severity          string `json:"severity"`
		Priority          string `json:"priority"`
		Description       string `json:"description"`
		CommitURLReported string `json:"commitUrlReported"`
	}
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "ReportBug", err)
	}

	bug, err := h.bugs.Report(c.Request().Context(), service.ReportInput{
		ProjectID:         projectID,
		ReporterID:        currentUserID(c),
		Severity:          req.Severity,
		Priority:          req.Priority,
		Description:       req.Description,
		CommitURLReported: req.CommitURLReported,
	})
	if err != nil {
		return h.respondError(c, "ReportBug", err)
	}

	h.logger.Info("ReportBug: баг создан", zap.String("bug_id", bug.ID))
	return c.JSON(http.StatusCreated, map[string]interface{}{"bug": bug})
}

// ListBugs возвращает баги проекта
func (h *Handler) ListBugs(c echo.Context) error {
	projectID := c.Param("id")

	bugs, err := h.bugs.ListForProject(c.Request().Context(), projectID, currentUserID(c))
	if err != nil {
		return h.respondError(c, "ListBugs", err)
	}

	h.logger.Info("ListBugs: баги получены",
		zap.String("project_id", projectID),
		zap.Int("bugs_count", len(bugs)))
	return c.JSON(http.StatusOK, map[string]interface{}{"bugs": bugs})
}

// AssignToMe закрепляет баг за текущим пользователем
func (h *Handler) AssignToMe(c echo.Context) error {
	bugID := c.Param("id")
	userID := currentUserID(c)
	h.logger.Info("AssignToMe: назначение бага",
		zap.String("bug_id", bugID),
		zap.String("user_id", userID))

	bug, err := h.bugs.AssignToSelf(c.Request().Context(), bugID, userID)
	if err != nil {
		return h.respondError(c, "AssignToMe", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"bug": bug})
}

// UpdateBugStatus меняет статус бага и пишет запись в историю
func (h *Handler) UpdateBugStatus(c echo.Context) error {
	bugID := c.Param("id")
	h.logger.Info("UpdateBugStatus: начало обработки запроса", zap.String("bug_id", bugID))

	var req struct {
		Status       string  `json:"status"`
		FixCommitURL *string `json:"fixCommitUrl"`
		Comment      *string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "UpdateBugStatus", err)
	}

	bug, update, err := h.bugs.UpdateStatus(c.Request().Context(), service.StatusInput{
		BugID:        bugID,
		UserID:       currentUserID(c),
		Status:       req.Status,
		FixCommitURL: req.FixCommitURL,
		Comment:      req.Comment,
	})
	if err != nil {
		return h.respondError(c, "UpdateBugStatus", err)
	}

	h.logger.Info("UpdateBugStatus: статус обновлен",
		zap.String("bug_id", bug.ID),
		zap.String("status", string(bug.Status)))
	return c.JSON(http.StatusOK, map[string]interface{}{"bug": bug, "update": update})
}

// BugHistory возвращает историю статусов бага
func (h *Handler) BugHistory(c echo.Context) error {
	updates, err := h.bugs.History(c.Request().Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		return h.respondError(c, "BugHistory", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"updates": updates})
}
