package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// RepoInfo возвращает сведения о репозитории GitHub
func (h *Handler) RepoInfo(c echo.Context) error {
	info, err := h.integrations.RepoInfo(c.Request().Context(), c.QueryParam("repoUrl"))
	if err != nil {
		return h.respondError(c, "RepoInfo", err)
	}
	return c.JSON(http.StatusOK, info)
}

// ValidateCommit проверяет, что коммит существует в репозитории
func (h *Handler) ValidateCommit(c echo.Context) error {
	info, err := h.integrations.ValidateCommit(c.Request().Context(), c.QueryParam("repoUrl"), c.QueryParam("commitUrl"))
	if err != nil {
		return h.respondError(c, "ValidateCommit", err)
	}
	return c.JSON(http.StatusOK, info)
}

// ListCommits возвращает последние коммиты репозитория.
// Нечисловой limit трактуется как отсутствующий.
func (h *Handler) ListCommits(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	commits, err := h.integrations.Commits(c.Request().Context(), c.QueryParam("repoUrl"), limit)
	if err != nil {
		return h.respondError(c, "ListCommits", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"commits": commits})
}
