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

type TransactionHandler struct {
	transactions service.TransactionService
	repo         domain.Repository
	logger       *logger.Logger
}

func NewTransactionHandler(transactions service.TransactionService, repo domain.Repository, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		repo:         repo,
		logger:       log,
	}
}

func (h *TransactionHandler) Deposit(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req service.DepositRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	tx, err := h.transactions.Deposit(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		case errors.Is(err, domain.ErrPaymentMethodNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "payment method not found",
			})
		default:
			h.logger.Error(ctx, "Deposit failed",
				"error", err,
			)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "failed to process deposit",
			})
		}
	}

	return c.JSON(http.StatusCreated, tx)
}

func (h *TransactionHandler) PayService(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req service.ServicePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	tx, err := h.transactions.PayService(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientBalance):
			// The failed attempt is part of the activity history.
			return c.JSON(http.StatusPaymentRequired, map[string]interface{}{
				"error":       "insufficient balance",
				"transaction": tx,
			})
		case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrValidation):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		case errors.Is(err, domain.ErrServiceNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "service not found",
			})
		case errors.Is(err, domain.ErrPaymentMethodNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "payment method not found",
			})
		default:
			h.logger.Error(ctx, "Service payment failed",
				"error", err,
			)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "failed to process payment",
			})
		}
	}

	return c.JSON(http.StatusCreated, tx)
}

func (h *TransactionHandler) Transfer(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req service.TransferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	tx, err := h.transactions.Transfer(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientBalance):
			return c.JSON(http.StatusPaymentRequired, map[string]string{
				"error": "insufficient balance",
			})
		case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrValidation):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		default:
			h.logger.Error(ctx, "Transfer failed",
				"error", err,
			)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "failed to process transfer",
			})
		}
	}

	return c.JSON(http.StatusCreated, tx)
}

func (h *TransactionHandler) ListServices(c echo.Context) error {
	ctx := c.Request().Context()

	services, err := h.repo.ListServices(ctx)
	if err != nil {
		h.logger.Error(ctx, "Failed to list services",
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list services",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"services": services,
	})
}
