package swagger

// swagger:route DELETE /employees/{id} Employee DeleteEmployee
// Deletes an employee using its id, deleting a missing employee succeeds.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeDeleteResponseOk
//   500: ServerErrorResponse

// swagger:response EmployeeDeleteResponseOk
type EmployeeDeleteResponseOk struct {
	// in:body
	Message string `json:"message"`
}

// swagger:parameters DeleteEmployee
type EmployeeDeleteParams struct {
	// in:path
	Id string `json:"id"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
