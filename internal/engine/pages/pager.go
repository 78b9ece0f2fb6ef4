package pages

import "fmt"

const (
	DefaultPageSize = 25
	FirstPage       = 1
)

var PageSizeOptions = []int{10, 25, 50, 100}

// Pager is the pagination footer shared by every list page.
type Pager struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Label      string `json:"label"`
	HasPrev    bool   `json:"has_prev"`
	HasNext    bool   `json:"has_next"`
}

func NewPager(page, pageSize, total int) Pager {
	page = NormalizePage(page)
	pageSize = NormalizePageSize(pageSize)
	if total < 0 {
		total = 0
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return Pager{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		Label:      fmt.Sprintf("Page %d of %d · %d total", page, totalPages, total),
		HasPrev:    page > FirstPage,
		HasNext:    page < totalPages,
	}
}

// Next is the page the "next" control leads to, clamped to the last page.
func (p Pager) Next() int {
	if p.Page >= p.TotalPages {
		return p.TotalPages
	}
	return p.Page + 1
}

// Prev is the page the "previous" control leads to, clamped to the first page.
func (p Pager) Prev() int {
	if p.Page <= FirstPage {
		return FirstPage
	}
	return p.Page - 1
}

func NormalizePage(page int) int {
	if page < FirstPage {
		return FirstPage
	}
	return page
}

// NormalizePageSize maps anything outside PageSizeOptions to the default.
func NormalizePageSize(size int) int {
	for _, option := range PageSizeOptions {
		if size == option {
			return size
		}
	}
	return DefaultPageSize
}
