package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const contextUserID = "user_id"

// AuthRequired проверяет Bearer токен и кладет ID пользователя в контекст запроса
func (h *Handler) AuthRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return c.JSON(http.StatusUnauthorized, newErrorResponse("UNAUTHENTICATED", "Missing Authorization header."))
		}

		userID, err := h.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			h.logger.Debug("AuthRequired: токен отклонен")
			return c.JSON(http.StatusUnauthorized, newErrorResponse("UNAUTHENTICATED", "Invalid or expired token."))
		}

		c.Set(contextUserID, userID)
		return next(c)
	}
}

// currentUserID возвращает ID пользователя, установленный AuthRequired
func currentUserID(c echo.Context) string {
	id, _ := c.Get(contextUserID).(string)
	return id
}
