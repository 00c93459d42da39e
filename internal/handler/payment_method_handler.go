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

type PaymentMethodHandler struct {
	methods service.PaymentMethodService
	logger  *logger.Logger
}

func NewPaymentMethodHandler(methods service.PaymentMethodService, log *logger.Logger) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		methods: methods,
		logger:  log,
	}
}

func (h *PaymentMethodHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	methods, err := h.methods.List(ctx, userID)
	if err != nil {
		h.logger.Error(ctx, "Failed to list cards",
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list cards",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cards": methods,
		"count": len(methods),
	})
}

func (h *PaymentMethodHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req service.AddCardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	method, err := h.methods.Add(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCardLimitReached):
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "card limit of 10 reached",
			})
		case errors.Is(err, domain.ErrValidation):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		default:
			h.logger.Error(ctx, "Failed to add card",
				"error", err,
			)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "failed to add card",
			})
		}
	}

	return c.JSON(http.StatusCreated, method)
}

func (h *PaymentMethodHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	if err := h.methods.Remove(ctx, userID, c.Param("id")); err != nil {
		h.logger.Error(ctx, "Failed to remove card",
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to remove card",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *PaymentMethodHandler) SetDefault(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	if err := h.methods.SetDefault(ctx, userID, c.Param("id")); err != nil {
		h.logger.Error(ctx, "Failed to set default card",
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to set default card",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
