package user

import "math"

// PageSize is the fixed number of users returned per page.
const PageSize = 10

// MaxPage is the largest page whose offset still fits in an int64.
const MaxPage = math.MaxInt64/PageSize + 1

// SortOrder is the id ordering of a listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps a query value onto a SortOrder, defaulting to ascending.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortDesc {
		return SortDesc
	}
	return SortAsc
}

// PageRequest describes which slice of users to list.
type PageRequest struct {
	Page  int64 // 1-based page number
	Limit int64
	Order SortOrder
}

// Normalize fills defaults: page 1, PageSize items, ascending order. Pages
// past MaxPage are clamped to it, which lists nothing.
func (p PageRequest) Normalize() PageRequest {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit <= 0 || p.Limit > PageSize {
		p.Limit = PageSize
	}
	if p.Order != SortDesc {
		p.Order = SortAsc
	}
	return p
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int64 {
	return (p.Page - 1) * p.Limit
}

// Page is one slice of users plus the total independent of paging.
type Page struct {
	Items []User
	Total int64
}

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64 // Total number of records
	Page       int64 // Current page number (1-based)
	Limit      int64 // Number of records per page
	TotalPages int64 // Total number of pages
}

// NewPagination creates a new Pagination instance with calculated total pages.
func NewPagination(total, page, limit int64) *Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
