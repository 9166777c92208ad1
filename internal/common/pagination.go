package common

import "math"

// Filters carries the pagination and sort parameters shared by the list
// endpoints.
type Filters struct {
	Page     int
	PageSize int
	Sort     string
}

func ValidateFilters(v *Validator, f Filters, sortList ...string) {
	v.Check(f.Page >= 0, "page", "must not be negative")
	v.Check(f.Page <= 10_000_000, "page", "must be at most 10 million")
	v.Check(f.PageSize > 0, "page_size", "must be greater than zero")
	v.Check(f.PageSize <= 100, "page_size", "must be at most 100")
	if len(sortList) > 0 {
		v.Check(In(f.Sort, sortList...), "sort_by", "invalid sort value")
	}
}

func (f Filters) Limit() int {
	return f.PageSize
}

func (f Filters) Offset() int {
	return f.Page * f.PageSize
}

// Metadata describes the page that a list query produced. Pages are
// zero-indexed.
type Metadata struct {
	CurrentPage  int `json:"current_page"`
	PageSize     int `json:"page_size"`
	FirstPage    int `json:"first_page"`
	LastPage     int `json:"last_page"`
	TotalRecords int `json:"total_records"`
}

func CalculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}

	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    0,
		LastPage:     int(math.Ceil(float64(totalRecords)/float64(pageSize))) - 1,
		TotalRecords: totalRecords,
	}
}
