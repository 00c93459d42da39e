package service

import (
	"context"
	"time"

	"github.com/dmhouse/wallet-api/internal/domain"
	"github.com/dmhouse/wallet-api/pkg/logger"
)

// Summary holds the counters shown above the activity list, computed
// over the full (unfiltered) history.
type Summary struct {
	TotalDeposited   int64 `json:"total_deposited"`
	TotalPaid        int64 `json:"total_paid"`
	TransactionCount int   `json:"transaction_count"`
}

// ActivityPage is one visible page of filtered activity plus the
// navigation strip and the aggregate counters.
type ActivityPage struct {
	Page
	PageNumbers []int              `json:"page_numbers"`
	Summary     Summary            `json:"summary"`
	Filter      domain.FilterState `json:"filter"`
}

type ActivityService interface {
	ListActivity(ctx context.Context, userID string, state domain.FilterState, page int) (*ActivityPage, error)
	ListTransactions(ctx context.Context, userID string, state domain.FilterState) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, userID, txID string) (*domain.Transaction, error)
}

type activityService struct {
	repo   domain.Repository
	logger *logger.Logger
	now    func() time.Time
}

func NewActivityService(repo domain.Repository, log *logger.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// ListTransactions returns the filtered, unpaginated activity in
// stored (newest-first) order.
func (s *activityService) ListTransactions(ctx context.Context, userID string, state domain.FilterState) ([]domain.Transaction, error) {
	ctx = logger.WithUserID(ctx, userID)

	transactions, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "Failed to list transactions",
			"error", err,
		)
		return nil, err
	}

	return ApplyFilters(transactions, state, s.now()), nil
}

func (s *activityService) ListActivity(ctx context.Context, userID string, state domain.FilterState, page int) (*ActivityPage, error) {
	ctx = logger.WithUserID(ctx, userID)

	transactions, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "Failed to list transactions",
			"error", err,
		)
		return nil, err
	}

	filtered := ApplyFilters(transactions, state, s.now())
	paged := Paginate(filtered, page, ItemsPerPage)

	s.logger.Debug(ctx, "Activity listed",
		"total", len(transactions),
		"filtered", len(filtered),
		"page", page,
		"total_pages", paged.TotalPages,
	)

	return &ActivityPage{
		Page:        paged,
		PageNumbers: PageWindow(page, paged.TotalPages),
		Summary:     summarize(transactions),
		Filter:      state,
	}, nil
}

func (s *activityService) GetTransaction(ctx context.Context, userID, txID string) (*domain.Transaction, error) {
	ctx = logger.WithUserID(ctx, userID)

	tx, err := s.repo.GetTransaction(ctx, userID, txID)
	if err != nil {
		s.logger.Debug(ctx, "Transaction lookup failed",
			"transaction_id", txID,
			"error", err,
		)
		return nil, err
	}

	return tx, nil
}

func summarize(transactions []domain.Transaction) Summary {
	summary := Summary{TransactionCount: len(transactions)}
	for _, tx := range transactions {
		if tx.Status != domain.TransactionStatusCompleted {
			continue
		}
		switch tx.Type {
		case domain.TransactionTypeDeposit:
			summary.TotalDeposited += tx.Amount
		case domain.TransactionTypePayment:
			paid := tx.Amount
			if paid < 0 {
				paid = -paid
			}
			summary.TotalPaid += paid
		}
	}
	return summary
}
