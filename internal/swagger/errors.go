package swagger

import "github.com/antonio-alexander/go-employees/internal/data"

// swagger:response ValidationErrorResponse
type ValidationErrorResponse struct {
	// in:body
	Issues []data.Issue `json:"issues"`
}

// swagger:response NotFoundResponse
type NotFoundResponse struct {
	// in:body
	Error data.ErrorResponse `json:"error"`
}

// swagger:response ServerErrorResponse
type ServerErrorResponse struct {
	// in:body
	Error data.ErrorResponse `json:"error"`
}
