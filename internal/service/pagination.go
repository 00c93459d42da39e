package service

import "github.com/dmhouse/wallet-api/internal/domain"

// ItemsPerPage is the fixed activity page size.
const ItemsPerPage = 10

// pageWindowSize caps the number of page buttons shown at once.
const pageWindowSize = 5

type Page struct {
	Items       []domain.Transaction `json:"items"`
	CurrentPage int                  `json:"current_page"`
	TotalPages  int                  `json:"total_pages"`
	TotalItems  int                  `json:"total_items"`
	StartIndex  int                  `json:"start_index"`
	EndIndex    int                  `json:"end_index"`
}

// Paginate slices the filtered collection. Pages are 1-based. The page
// argument is not clamped: a page past the end yields an empty slice,
// which is a valid displayable state. An empty collection still reports
// one (empty) page.
func Paginate(filtered []domain.Transaction, page, pageSize int) Page {
	total := len(filtered)

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize

	if start >= total || start < 0 {
		return Page{
			Items:       []domain.Transaction{},
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			StartIndex:  start,
			EndIndex:    start,
		}
	}
	if end > total {
		end = total
	}

	items := make([]domain.Transaction, end-start)
	copy(items, filtered[start:end])

	return Page{
		Items:       items,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		StartIndex:  start,
		EndIndex:    end,
	}
}

// PageWindow returns up to five page numbers for the navigation strip:
// the first five near the start, the last five near the end, and a
// window centered on the current page in between.
func PageWindow(currentPage, totalPages int) []int {
	count := totalPages
	if count > pageWindowSize {
		count = pageWindowSize
	}
	if count < 1 {
		return nil
	}

	pages := make([]int, count)
	for i := 0; i < count; i++ {
		switch {
		case totalPages <= pageWindowSize:
			pages[i] = i + 1
		case currentPage <= 3:
			pages[i] = i + 1
		case currentPage >= totalPages-2:
			pages[i] = totalPages - (pageWindowSize - 1) + i
		default:
			pages[i] = currentPage - 2 + i
		}
	}

	return pages
}
