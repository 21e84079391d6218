package analytics

import "github.com/Veraticus/ledger/internal/model"

// DefaultPageSize is the number of rows shown per table page.
const DefaultPageSize = 25

func normalizePageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	return pageSize
}

// PageCount returns how many pages n rows fill. It is 0 for no rows.
func PageCount(n, pageSize int) int {
	if n <= 0 {
		return 0
	}
	pageSize = normalizePageSize(pageSize)
	return (n + pageSize - 1) / pageSize
}

// Paginate returns the rows of the 1-based page. Pages outside
// [1, PageCount] yield an empty slice; the paginator never clamps.
func Paginate(sorted []model.Transaction, pageSize, page int) []model.Transaction {
	pageSize = normalizePageSize(pageSize)
	if page < 1 || page > PageCount(len(sorted), pageSize) {
		return []model.Transaction{}
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(sorted))

	return sorted[start:end:end]
}

// ClampPage brings page into [1, max(pageCount, 1)]. Callers use it to
// guard previous/next navigation.
func ClampPage(page, pageCount int) int {
	return max(1, min(page, max(pageCount, 1)))
}
