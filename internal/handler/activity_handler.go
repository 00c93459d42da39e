package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmhouse/wallet-api/internal/domain"
	"github.com/dmhouse/wallet-api/internal/middleware"
	"github.com/dmhouse/wallet-api/internal/service"
	"github.com/dmhouse/wallet-api/pkg/logger"
	"github.com/labstack/echo/v4"
)

type ActivityHandler struct {
	activity service.ActivityService
	logger   *logger.Logger
}

func NewActivityHandler(activity service.ActivityService, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		activity: activity,
		logger:   log,
	}
}

func (h *ActivityHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	state := parseFilterState(c)

	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := h.activity.ListActivity(ctx, userID, state, page)
	if err != nil {
		h.logger.Error(ctx, "Failed to list activity",
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list activity",
		})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *ActivityHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)
	txID := c.Param("id")

	tx, err := h.activity.GetTransaction(ctx, userID, txID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "transaction not found",
			})
		}
		h.logger.Error(ctx, "Failed to get transaction",
			"transaction_id", txID,
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to get transaction",
		})
	}

	return c.JSON(http.StatusOK, tx)
}

// parseFilterState maps query params onto a FilterState. Filter inputs
// are never an error: unrecognized values fall back to the pass-through
// default.
func parseFilterState(c echo.Context) domain.FilterState {
	state := domain.DefaultFilterState()

	switch t := domain.TypeFilter(c.QueryParam("type")); t {
	case domain.TypeFilterDeposit, domain.TypeFilterPayment:
		state.Type = t
	}

	switch d := domain.DateFilter(c.QueryParam("date")); d {
	case domain.DateFilterToday, domain.DateFilterYesterday, domain.DateFilterWeek,
		domain.DateFilterFifteenDays, domain.DateFilterMonth, domain.DateFilterThreeMonths:
		state.Date = d
	}

	switch a := domain.AmountFilter(c.QueryParam("amount")); a {
	case domain.AmountFilterUpTo1K, domain.AmountFilter1KTo5K, domain.AmountFilter5KTo20K,
		domain.AmountFilter20KTo100K, domain.AmountFilterOver100K:
		state.Amount = a
	}

	state.Search = c.QueryParam("q")

	return state
}
