package swagger

import "github.com/antonio-alexander/go-employees/internal/data"

// swagger:route POST /employees Employee CreateEmployee
// Creates an employee.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeCreateResponseOk
//   400: ValidationErrorResponse
//   500: ServerErrorResponse

// swagger:response EmployeeCreateResponseOk
type EmployeeCreateResponseOk struct {
	// in:body
	Employee data.Employee `json:"employee"`
}

// swagger:parameters CreateEmployee
type EmployeeCreateParams struct {
	// in:body
	EmployeeCreate data.EmployeeCreate `json:"employee_create"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
