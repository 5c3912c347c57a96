package data

const (
	RouteEmployees    string = "/employees"
	RouteEmployeesId  string = RouteEmployees + "/{" + PathId + "}"
	RouteEmployeesIdf string = RouteEmployees + "/%s"
	RouteTimers       string = "/timers"
	RouteCounters     string = "/counters"
)

const (
	PathId              string = "id"
	HeaderCorrelationId string = "Correlation-Id"
)

const MessageEmployeeDeleted string = "Employee deleted"

type EmployeeResponse struct {
	Employee *Employee `json:"data"`
}

type EmployeesResponse struct {
	Employees []*Employee `json:"data"`
	Meta      Meta        `json:"meta"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
