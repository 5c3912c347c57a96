package swagger

import "github.com/antonio-alexander/go-employees/internal/data"

// swagger:route PUT /employees/{id} Employee UpdateEmployee
// Overwrites the name, email, phone_no and team of an employee.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeUpdateResponseOk
//   400: ValidationErrorResponse
//   404: NotFoundResponse
//   500: ServerErrorResponse

// swagger:response EmployeeUpdateResponseOk
type EmployeeUpdateResponseOk struct {
	// in:body
	Employee data.Employee `json:"employee"`
}

// swagger:parameters UpdateEmployee
type EmployeeUpdateParams struct {
	// in:path
	Id string `json:"id"`

	// in:body
	EmployeeUpdate data.EmployeeUpdate `json:"employee_update"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
