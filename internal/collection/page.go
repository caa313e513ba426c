package collection

import (
	"fitness-portal/pkg/types"
)

// Page режет уже загруженный список на страницы (на сервер не ходит).
// Номер страницы за пределами диапазона дает пустую страницу.
func Page[T any](rows []T, page, perPage int) ([]T, types.Pagination) {
	if perPage <= 0 {
		perPage = len(rows)
		if perPage == 0 {
			perPage = 1
		}
	}
	if page < 1 {
		page = 1
	}

	pagination := types.NewPagination(uint64(len(rows)), page, perPage)

	if page-1 > len(rows)/perPage {
		return []T{}, pagination
	}
	start := (page - 1) * perPage
	if start >= len(rows) {
		return []T{}, pagination
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], pagination
}

// Filter оставляет строки, для которых keep вернул true.
func Filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}
