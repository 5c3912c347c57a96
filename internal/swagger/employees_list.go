package swagger

import "github.com/antonio-alexander/go-employees/internal/data"

// swagger:route GET /employees Employee ListEmployees
// Lists employees one page at a time, optionally filtered by name, email
// (case-insensitive substrings) and status (exact).
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesListResponseOk
//   500: ServerErrorResponse

// swagger:response EmployeesListResponseOk
type EmployeesListResponseOk struct {
	// in:body
	Body data.EmployeesResponse `json:"body"`
}

// swagger:parameters ListEmployees
type EmployeesListParams struct {
	// in:query
	data.EmployeeSearch

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
