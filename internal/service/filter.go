package service

import (
	"strings"
	"time"

	"github.com/dmhouse/wallet-api/internal/domain"
)

const day = 24 * time.Hour

// ApplyFilters runs the activity filter pipeline: type, date, amount
// bucket, then text search, combined with AND. It always evaluates the
// full input collection and preserves its order; callers re-run it from
// scratch on every filter change rather than filtering incrementally.
func ApplyFilters(transactions []domain.Transaction, state domain.FilterState, now time.Time) []domain.Transaction {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	query := strings.ToLower(strings.TrimSpace(state.Search))

	filtered := make([]domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if !matchesType(tx, state.Type) {
			continue
		}
		if !matchesDate(tx, state.Date, today) {
			continue
		}
		if !matchesAmount(tx, state.Amount) {
			continue
		}
		if !matchesSearch(tx, query) {
			continue
		}
		filtered = append(filtered, tx)
	}

	return filtered
}

func matchesType(tx domain.Transaction, filter domain.TypeFilter) bool {
	if filter == domain.TypeFilterAll || filter == "" {
		return true
	}
	return string(tx.Type) == string(filter)
}

// Date windows are measured from the start of the current day. They
// overlap on purpose: "week" is a subset of "month", matching how the
// period buttons behave.
func matchesDate(tx domain.Transaction, filter domain.DateFilter, today time.Time) bool {
	switch filter {
	case domain.DateFilterToday:
		return !tx.CreatedAt.Before(today)
	case domain.DateFilterYesterday:
		yesterday := today.Add(-day)
		return !tx.CreatedAt.Before(yesterday) && tx.CreatedAt.Before(today)
	case domain.DateFilterWeek:
		return !tx.CreatedAt.Before(today.Add(-7 * day))
	case domain.DateFilterFifteenDays:
		return !tx.CreatedAt.Before(today.Add(-15 * day))
	case domain.DateFilterMonth:
		return !tx.CreatedAt.Before(today.Add(-30 * day))
	case domain.DateFilterThreeMonths:
		return !tx.CreatedAt.Before(today.Add(-90 * day))
	default:
		return true
	}
}

// Amount buckets partition [0, inf) on the absolute value; each
// boundary belongs to the lower bucket.
func matchesAmount(tx domain.Transaction, filter domain.AmountFilter) bool {
	amount := tx.Amount
	if amount < 0 {
		amount = -amount
	}

	switch filter {
	case domain.AmountFilterUpTo1K:
		return amount <= 1000
	case domain.AmountFilter1KTo5K:
		return amount > 1000 && amount <= 5000
	case domain.AmountFilter5KTo20K:
		return amount > 5000 && amount <= 20000
	case domain.AmountFilter20KTo100K:
		return amount > 20000 && amount <= 100000
	case domain.AmountFilterOver100K:
		return amount > 100000
	default:
		return true
	}
}

func matchesSearch(tx domain.Transaction, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(tx.Description), query) ||
		strings.Contains(strings.ToLower(tx.Destination), query) ||
		strings.Contains(strings.ToLower(tx.OperationNumber), query)
}
