package data

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultPage  int = 1
	DefaultLimit int = 10
)

const (
	ParameterPage   string = "page"
	ParameterLimit  string = "limit"
	ParameterName   string = "name"
	ParameterEmail  string = "email"
	ParameterStatus string = "status"
)

// EmployeeFilter describes which employees match a search, a blank field
// is not filtered on
type EmployeeFilter struct {
	Name   string `json:"name,omitempty"`   //case-insensitive substring
	Email  string `json:"email,omitempty"`  //case-insensitive substring
	Status string `json:"status,omitempty"` //exact match
}

func (f EmployeeFilter) Match(employee *Employee) bool {
	if f.Name != "" && !containsFold(employee.Name, f.Name) {
		return false
	}
	if f.Email != "" && !containsFold(employee.Email, f.Email) {
		return false
	}
	if f.Status != "" && employee.Status != f.Status {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// EmployeeSearch holds the raw query parameters of an employee listing,
// page and limit are kept as text since they're coerced leniently
type EmployeeSearch struct {
	Page   string `json:"page,omitempty"`
	Limit  string `json:"limit,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Status string `json:"status,omitempty"`
}

func (e *EmployeeSearch) ToParams() url.Values {
	params := make(url.Values)
	for key, value := range map[string]string{
		ParameterPage:   e.Page,
		ParameterLimit:  e.Limit,
		ParameterName:   e.Name,
		ParameterEmail:  e.Email,
		ParameterStatus: e.Status,
	} {
		if value != "" {
			params.Set(key, value)
		}
	}
	return params
}

func (e *EmployeeSearch) FromParams(params url.Values) {
	for key, value := range params {
		if len(value) <= 0 {
			continue
		}
		switch strings.ToLower(key) {
		case ParameterPage:
			e.Page = value[0]
		case ParameterLimit:
			e.Limit = value[0]
		case ParameterName:
			e.Name = value[0]
		case ParameterEmail:
			e.Email = value[0]
		case ParameterStatus:
			e.Status = value[0]
		}
	}
}

func (e *EmployeeSearch) Filter() EmployeeFilter {
	return EmployeeFilter{
		Name:   strings.TrimSpace(e.Name),
		Email:  strings.TrimSpace(e.Email),
		Status: strings.TrimSpace(e.Status),
	}
}

// Pagination returns the page and limit, falling back to their defaults
// when the text doesn't start with a positive integer
func (e *EmployeeSearch) Pagination() (page, limit int) {
	if page = parseLeadingInt(e.Page); page <= 0 {
		page = DefaultPage
	}
	if limit = parseLeadingInt(e.Limit); limit <= 0 {
		limit = DefaultLimit
	}
	return page, limit
}

func (e *EmployeeSearch) String() string {
	page, limit := e.Pagination()
	return fmt.Sprintf("page=%d limit=%d filter=%+v", page, limit, e.Filter())
}

const maxLeadingInt int = 1 << 30

// parseLeadingInt parses the optionally signed run of digits at the start
// of s (after whitespace), so "2abc" is 2 and "abc" is 0
func parseLeadingInt(s string) int {
	var n int
	var negative, found bool

	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		found = true
		n = n*10 + int(r-'0')
		if n > maxLeadingInt {
			return 0
		}
	}
	if !found {
		return 0
	}
	if negative {
		return -n
	}
	return n
}

// Meta is the pagination metadata returned alongside a page of employees
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

func NewMeta(total int64, page, limit int) Meta {
	meta := Meta{
		Total: total,
		Page:  page,
		Limit: limit,
	}
	if limit > 0 {
		meta.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return meta
}
