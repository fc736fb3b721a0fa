package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Register регистрирует пользователя и возвращает токен
func (h *Handler) Register(c echo.Context) error {
	h.logger.Info("Register: начало обработки запроса")

	var req struct {
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Name     *string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "Register", err)
	}

	session, err := h.accounts.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return h.respondError(c, "Register", err)
	}

	h.logger.Info("Register: пользователь зарегистрирован", zap.String("user_id", session.User.ID))
	return c.JSON(http.StatusCreated, session)
}

// Login выпускает токен по email и паролю
func (h *Handler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "Login", err)
	}

	session, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.respondError(c, "Login", err)
	}

	h.logger.Info("Login: пользователь вошел", zap.String("user_id", session.User.ID))
	return c.JSON(http.StatusOK, session)
}

// Me возвращает текущего пользователя
func (h *Handler) Me(c echo.Context) error {
	user, err := h.accounts.Me(c.Request().Context(), currentUserID(c))
	if err != nil {
		return h.respondError(c, "Me", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}
