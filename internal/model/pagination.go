package model

// The goods and order backends page differently and share no field names.
// Keep them as separate types; converting one into the other is a bug.

// GoodsPagination pagination block of goods listings
type GoodsPagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// NewGoodsPagination derives a consistent block from the three base values.
func NewGoodsPagination(totalItems, itemsPerPage, currentPage int) GoodsPagination {
	pages := pageCount(totalItems, itemsPerPage)
	return GoodsPagination{
		CurrentPage:  currentPage,
		TotalPages:   pages,
		TotalItems:   totalItems,
		ItemsPerPage: itemsPerPage,
		HasNextPage:  currentPage < pages,
		HasPrevPage:  currentPage > 1,
	}
}

// Consistent reports whether the derived fields agree with the base values.
func (p GoodsPagination) Consistent() bool {
	if p.ItemsPerPage <= 0 || p.TotalItems < 0 || p.CurrentPage < 1 {
		return false
	}
	return p == NewGoodsPagination(p.TotalItems, p.ItemsPerPage, p.CurrentPage)
}

// OrderPagination pagination block of order listings
type OrderPagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewOrderPagination derives Pages from total and limit.
func NewOrderPagination(total, limit, page int) OrderPagination {
	return OrderPagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pageCount(total, limit),
	}
}

// Consistent reports whether Pages matches Total and Limit.
func (p OrderPagination) Consistent() bool {
	if p.Limit <= 0 || p.Total < 0 || p.Page < 1 {
		return false
	}
	return p.Pages == pageCount(p.Total, p.Limit)
}

// HasNext reports whether another page follows p.
func (p OrderPagination) HasNext() bool {
	return p.Page < p.Pages
}

func pageCount(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
