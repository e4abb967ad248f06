package utils

import "math"

// MaxLimit caps the page size a client may request
const MaxLimit = 100

// PaginationParams holds pagination request parameters
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// PaginationMeta holds pagination response metadata
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// GetPaginationParams normalizes page and limit. Page starts at 1; a limit of
// 0 means every item on a single page.
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PaginationParams{Page: page, Limit: limit}
}

// CalculateOffset returns the index of the first item on the page
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Paginate returns the window of items selected by p. The result shares
// the backing array of items.
func Paginate[T any](items []T, p PaginationParams) []T {
	if p.Limit <= 0 {
		return items
	}
	start := p.CalculateOffset()
	if start >= len(items) {
		return items[:0:0]
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end]
}

// CalculateMeta generates pagination metadata
func CalculateMeta(totalCount int64, page, limit int) PaginationMeta {
	if limit <= 0 {
		return PaginationMeta{
			Page:       1,
			Limit:      int(totalCount),
			TotalCount: totalCount,
			TotalPages: 1,
		}
	}

	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(limit))),
	}
}
