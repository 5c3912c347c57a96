package swagger

import "github.com/antonio-alexander/go-employees/internal/data"

// swagger:route GET /counters Counters ReadCounters
// Reads how many times each operation succeeded or failed.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: CountersReadResponseOk

// swagger:response CountersReadResponseOk
type CountersReadResponseOk struct {
	// in:body
	Counters data.Counters `json:"counters"`
}

// swagger:parameters ReadCounters
type CountersReadParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
