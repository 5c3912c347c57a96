package swagger

import "github.com/antonio-alexander/go-employees/internal/data"

// swagger:route GET /timers Timers ReadTimers
// Reads the total and average time spent per operation.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: TimersReadResponseOk

// swagger:response TimersReadResponseOk
type TimersReadResponseOk struct {
	// in:body
	Timers data.Timers `json:"timers"`
}

// swagger:parameters ReadTimers
type TimersReadParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
