package handler

import (
	"errors"
	"net/http"

	"github.com/dmhouse/wallet-api/internal/domain"
	"github.com/dmhouse/wallet-api/internal/middleware"
	"github.com/dmhouse/wallet-api/internal/service"
	"github.com/dmhouse/wallet-api/pkg/logger"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	auth   service.AuthService
	logger *logger.Logger
}

func NewAuthHandler(auth service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: log,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	user, token, err := h.auth.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "email already registered",
			})
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrPasswordMismatch):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		default:
			h.logger.Error(ctx, "Failed to register user",
				"error", err,
			)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "failed to register",
			})
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	user, token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid credentials",
			})
		}
		h.logger.Error(ctx, "Login failed",
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to log in",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	user, err := h.auth.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "user not found",
			})
		}
		h.logger.Error(ctx, "Failed to load profile",
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to load profile",
		})
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateAlias(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req struct {
		Alias string `json:"alias"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	user, err := h.auth.UpdateAlias(ctx, userID, req.Alias)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "user not found",
			})
		default:
			h.logger.Error(ctx, "Failed to update alias",
				"error", err,
			)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "failed to update alias",
			})
		}
	}

	return c.JSON(http.StatusOK, user)
}
