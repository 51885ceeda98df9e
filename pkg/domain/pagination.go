package domain

import "fmt"

const (
	DefaultPageSize = 5
	MaxPageSize     = 1000
)

// PageOptions defines 1-based page pagination
type PageOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// DefaultPageOptions returns the first page with the default size
func DefaultPageOptions() PageOptions {
	return PageOptions{Page: 1, PageSize: DefaultPageSize}
}

// Validate validates pagination options
func (po PageOptions) Validate() error {
	if po.Page < 1 {
		return fmt.Errorf("%w: page must be at least 1, got %d", ErrInvalidPage, po.Page)
	}
	if po.PageSize < 1 {
		return fmt.Errorf("%w: page size must be at least 1, got %d", ErrInvalidPage, po.PageSize)
	}
	if po.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d exceeds maximum %d", ErrInvalidPage, po.PageSize, MaxPageSize)
	}
	return nil
}

// Skip is the number of records preceding the page.
func (po PageOptions) Skip() int {
	return (po.Page - 1) * po.PageSize
}

// FindOptions converts the page into skip/limit options over natural order.
func (po PageOptions) FindOptions() *FindOptions {
	return &FindOptions{Skip: po.Skip(), Limit: po.PageSize}
}
