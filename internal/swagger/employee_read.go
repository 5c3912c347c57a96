package swagger

import "github.com/antonio-alexander/go-employees/internal/data"

// swagger:route GET /employees/{id} Employee ReadEmployee
// Reads an employee using its id, data is null if it doesn't exist.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeReadResponseOk
//   500: ServerErrorResponse

// swagger:response EmployeeReadResponseOk
type EmployeeReadResponseOk struct {
	// in:body
	Body data.EmployeeResponse `json:"body"`
}

// swagger:parameters ReadEmployee
type EmployeeReadParams struct {
	// in:path
	Id string `json:"id"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
