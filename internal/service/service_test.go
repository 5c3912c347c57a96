package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/antonio-alexander/go-employees/internal"
	"github.com/antonio-alexander/go-employees/internal/data"
	"github.com/antonio-alexander/go-employees/internal/logic"
	"github.com/antonio-alexander/go-employees/internal/service"
	"github.com/antonio-alexander/go-employees/internal/store"
	"github.com/antonio-alexander/go-employees/internal/utilities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envs = map[string]string{
	"SERVICE_ADDRESS":          "localhost",
	"SERVICE_PORT":             "0",
	"SERVICE_SHUTDOWN_TIMEOUT": "5",
	"SERVICE_CORS_DISABLED":    "false",
	"SERVICE_TIMERS_ENABLED":   "true",
}

// brokenStore fails every operation
type brokenStore struct{}

var errBroken = errors.New("connection refused")

func (brokenStore) EmployeeCreate(context.Context, data.EmployeeCreate) (*data.Employee, error) {
	return nil, errBroken
}

func (brokenStore) EmployeeRead(context.Context, string) (*data.Employee, error) {
	return nil, errBroken
}

func (brokenStore) EmployeesSearch(context.Context, data.EmployeeFilter, int, int) ([]*data.Employee, error) {
	return nil, errBroken
}

func (brokenStore) EmployeesCount(context.Context, data.EmployeeFilter) (int64, error) {
	return 0, errBroken
}

func (brokenStore) EmployeeUpdate(context.Context, string, data.EmployeeUpdate) (*data.Employee, error) {
	return nil, errBroken
}

func (brokenStore) EmployeeDelete(context.Context, string) error {
	return errBroken
}

type serviceTest struct {
	store interface {
		internal.Component
		internal.Clearer
		store.Store
	}
	service interface {
		internal.Configurer
		internal.Opener
		http.Handler
	}
	counter utilities.Counter
	timers  utilities.Timers
	server  *httptest.Server
	client  *http.Client
}

func newServiceTest() *serviceTest {
	s := store.NewMemory()
	counter, timers := utilities.NewCounter(), utilities.NewTimers()
	return &serviceTest{
		store:   s,
		counter: counter,
		timers:  timers,
		service: service.NewService(logic.NewLogic(s), counter, timers),
		client:  &http.Client{},
	}
}

func (s *serviceTest) Open(ctx context.Context) error {
	if err := s.store.Open(ctx); err != nil {
		return err
	}
	if err := s.service.Configure(envs); err != nil {
		return err
	}
	s.server = httptest.NewServer(s.service)
	return nil
}

func (s *serviceTest) Close(ctx context.Context) error {
	s.server.Close()
	return s.store.Close(ctx)
}

func (s *serviceTest) employeeCreate(t *testing.T, i int) *data.Employee {
	employee := &data.Employee{}
	_, _, err := internal.DoRequest(s.client, s.server.URL+data.RouteEmployees,
		http.MethodPost, &data.EmployeeCreate{
			Name:    fmt.Sprintf("Employee %02d", i),
			Email:   fmt.Sprintf("employee%02d@example.com", i),
			PhoneNo: "555-0100",
			Team:    "support",
			Status:  data.StatusActive,
		}, employee)
	require.Nil(t, err)
	return employee
}

func (s *serviceTest) TestEmployees(t *testing.T) {
	employeeCreate := data.EmployeeCreate{
		Name:    "Grace Hopper",
		Email:   "grace@example.com",
		PhoneNo: "555-0101",
		Team:    "compilers",
		Status:  data.StatusActive,
	}

	// create employee
	employeeCreated := &data.Employee{}
	uri := s.server.URL + data.RouteEmployees
	statusCode, _, err := internal.DoRequest(s.client, uri, http.MethodPost,
		&employeeCreate, employeeCreated)
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.NotEmpty(t, employeeCreated.Id)
	assert.Equal(t, employeeCreate.ToEmployee(employeeCreated.Id), employeeCreated)
	id := employeeCreated.Id

	// read employee
	response := &data.EmployeeResponse{}
	uri = s.server.URL + fmt.Sprintf(data.RouteEmployeesIdf, id)
	_, _, err = internal.DoRequest(s.client, uri, http.MethodGet, nil, response)
	require.Nil(t, err)
	assert.Equal(t, employeeCreated, response.Employee)

	// update employee
	employeeUpdated := &data.Employee{}
	_, _, err = internal.DoRequest(s.client, uri, http.MethodPut, &data.EmployeeUpdate{
		Name:  "Grace B. Hopper",
		Email: "hopper@example.com",
		Team:  "navy",
	}, employeeUpdated)
	require.Nil(t, err)
	assert.Equal(t, &data.Employee{
		Id:     id,
		Name:   "Grace B. Hopper",
		Email:  "hopper@example.com",
		Team:   "navy",
		Status: data.StatusActive,
	}, employeeUpdated)

	// delete employee
	statusCode, bytes, err := internal.DoRequest(s.client, uri, http.MethodDelete, nil)
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.JSONEq(t, `"Employee deleted"`, string(bytes))

	// delete employee again
	statusCode, bytes, err = internal.DoRequest(s.client, uri, http.MethodDelete, nil)
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.JSONEq(t, `"Employee deleted"`, string(bytes))

	// read deleted employee
	statusCode, bytes, err = internal.DoRequest(s.client, uri, http.MethodGet, nil)
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.JSONEq(t, `{"data":null}`, string(bytes))

	// update deleted employee
	statusCode, bytes, err = internal.DoRequest(s.client, uri, http.MethodPut,
		&data.EmployeeUpdate{Name: "Grace"})
	assert.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, statusCode)
	assert.JSONEq(t, `{"error":"Employee not found"}`, string(bytes))
}

func (s *serviceTest) TestEmployeeCreateInvalid(t *testing.T) {
	var issues []data.Issue

	uri := s.server.URL + data.RouteEmployees

	// missing fields
	statusCode, bytes, err := internal.DoRequest(s.client, uri, http.MethodPost,
		&data.EmployeeCreate{Name: "Ada Lovelace"})
	assert.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, statusCode)
	require.Nil(t, json.Unmarshal(bytes, &issues))
	assert.Len(t, issues, 4)
	for _, issue := range issues {
		assert.Equal(t, "required", issue.Code)
		assert.Len(t, issue.Path, 1)
	}

	// malformed json
	statusCode, bytes, err = internal.DoRequest(s.client, uri, http.MethodPost,
		[]byte(`{"name": `))
	assert.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, statusCode)
	require.Nil(t, json.Unmarshal(bytes, &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, data.IssueCodeInvalidJson, issues[0].Code)
}

func (s *serviceTest) TestEmptyBody(t *testing.T) {
	var issues []data.Issue

	// create reads an empty body as an empty employee
	statusCode, bytes, err := internal.DoRequest(s.client, s.server.URL+data.RouteEmployees,
		http.MethodPost, []byte{})
	assert.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, statusCode)
	require.Nil(t, json.Unmarshal(bytes, &issues))
	assert.Len(t, issues, 5)

	// update writes every field as empty, status is kept
	employee := s.employeeCreate(t, 99)
	employeeUpdated := &data.Employee{}
	uri := s.server.URL + fmt.Sprintf(data.RouteEmployeesIdf, employee.Id)
	_, _, err = internal.DoRequest(s.client, uri, http.MethodPut, []byte{}, employeeUpdated)
	require.Nil(t, err)
	assert.Equal(t, &data.Employee{Id: employee.Id, Status: employee.Status}, employeeUpdated)

	// update of a missing employee is still not found
	uri = s.server.URL + fmt.Sprintf(data.RouteEmployeesIdf, internal.GenerateId())
	statusCode, _, err = internal.DoRequest(s.client, uri, http.MethodPut, []byte(" "))
	assert.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, statusCode)
}

func (s *serviceTest) TestEmployeesList(t *testing.T) {
	var employees []*data.Employee

	require.Nil(t, s.store.Clear(context.TODO()))
	for i := 1; i <= 12; i++ {
		employees = append(employees, s.employeeCreate(t, i))
	}

	// second page
	response := &data.EmployeesResponse{}
	uri := s.server.URL + data.RouteEmployees
	_, _, err := internal.DoRequest(s.client, uri, http.MethodGet,
		url.Values{"page": {"2"}, "limit": {"5"}}, response)
	require.Nil(t, err)
	assert.Equal(t, employees[5:10], response.Employees)
	assert.Equal(t, data.Meta{Total: 12, Page: 2, Limit: 5, TotalPages: 3}, response.Meta)

	// invalid pagination falls back to the defaults
	response = &data.EmployeesResponse{}
	_, _, err = internal.DoRequest(s.client, uri, http.MethodGet,
		url.Values{"page": {"first"}, "limit": {"-1"}}, response)
	require.Nil(t, err)
	assert.Len(t, response.Employees, 10)
	assert.Equal(t, data.Meta{Total: 12, Page: 1, Limit: 10, TotalPages: 2}, response.Meta)

	// filtered
	response = &data.EmployeesResponse{}
	search := data.EmployeeSearch{Name: "EMPLOYEE 0", Status: data.StatusActive}
	_, _, err = internal.DoRequest(s.client, uri, http.MethodGet, search.ToParams(), response)
	require.Nil(t, err)
	assert.Equal(t, employees[:9], response.Employees)
	assert.Equal(t, int64(9), response.Meta.Total)

	// no matches is an empty list
	_, bytes, err := internal.DoRequest(s.client, uri, http.MethodGet,
		url.Values{"status": {data.StatusInactive}})
	require.Nil(t, err)
	assert.JSONEq(t, `{"data":[],"meta":{"total":0,"page":1,"limit":10,"totalPages":0}}`,
		string(bytes))
}

func (s *serviceTest) TestCorrelationId(t *testing.T) {
	correlationId := internal.GenerateId()
	request, err := http.NewRequest(http.MethodGet, s.server.URL+data.RouteEmployees, nil)
	require.Nil(t, err)
	request.Header.Set(data.HeaderCorrelationId, correlationId)
	response, err := s.client.Do(request)
	require.Nil(t, err)
	defer response.Body.Close()
	assert.Equal(t, correlationId, response.Header.Get(data.HeaderCorrelationId))

	response, err = s.client.Get(s.server.URL + data.RouteEmployees)
	require.Nil(t, err)
	defer response.Body.Close()
	assert.NotEmpty(t, response.Header.Get(data.HeaderCorrelationId))
}

func (s *serviceTest) TestMethodNotAllowed(t *testing.T) {
	statusCode, _, err := internal.DoRequest(s.client, s.server.URL+data.RouteEmployees,
		http.MethodPatch, nil)
	assert.NotNil(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, statusCode)
}

func (s *serviceTest) TestTimersCounters(t *testing.T) {
	timers := &data.Timers{}
	_, _, err := internal.DoRequest(s.client, s.server.URL+data.RouteTimers,
		http.MethodGet, nil, timers)
	require.Nil(t, err)
	assert.Contains(t, timers.Totals, "employee_create")

	counters := &data.Counters{}
	_, _, err = internal.DoRequest(s.client, s.server.URL+data.RouteCounters,
		http.MethodGet, nil, counters)
	require.Nil(t, err)
	assert.Equal(t, counters, s.counter.ReadAll())
	assert.Positive(t, counters.Successes["employee_create"])
	assert.Positive(t, counters.Failures["employee_create"])

	statusCode, _, err := internal.DoRequest(s.client, s.server.URL+data.RouteCounters,
		http.MethodDelete, nil)
	assert.NotNil(t, err)
	assert.Equal(t, http.StatusNoContent, statusCode)
	successes, failures := s.counter.Read("employee_create")
	assert.Zero(t, successes)
	assert.Zero(t, failures)

	statusCode, _, err = internal.DoRequest(s.client, s.server.URL+data.RouteTimers,
		http.MethodDelete, nil)
	assert.NotNil(t, err)
	assert.Equal(t, http.StatusNoContent, statusCode)
	assert.Empty(t, s.timers.ReadAll().Totals)
}

func TestService(t *testing.T) {
	s := newServiceTest()

	ctx := context.TODO()
	err := s.Open(ctx)
	require.Nil(t, err)
	defer func() {
		if err := s.Close(ctx); err != nil {
			t.Logf("error while closing serviceTest: %s", err)
		}
	}()
	t.Run("Employees", s.TestEmployees)
	t.Run("EmployeeCreateInvalid", s.TestEmployeeCreateInvalid)
	t.Run("EmptyBody", s.TestEmptyBody)
	t.Run("EmployeesList", s.TestEmployeesList)
	t.Run("CorrelationId", s.TestCorrelationId)
	t.Run("MethodNotAllowed", s.TestMethodNotAllowed)
	t.Run("TimersCounters", s.TestTimersCounters)
}

func TestServiceStoreError(t *testing.T) {
	server := httptest.NewServer(service.NewService(logic.NewLogic(brokenStore{})))
	defer server.Close()

	client := &http.Client{}
	for _, request := range []struct {
		method string
		uri    string
		input  interface{}
	}{
		{http.MethodGet, data.RouteEmployees, nil},
		{http.MethodGet, fmt.Sprintf(data.RouteEmployeesIdf, "1"), nil},
		{http.MethodPut, fmt.Sprintf(data.RouteEmployeesIdf, "1"), &data.EmployeeUpdate{}},
		{http.MethodDelete, fmt.Sprintf(data.RouteEmployeesIdf, "1"), nil},
	} {
		statusCode, bytes, err := internal.DoRequest(client, server.URL+request.uri,
			request.method, request.input)
		assert.NotNil(t, err)
		assert.Equal(t, http.StatusInternalServerError, statusCode)
		assert.JSONEq(t, `{"error":"Server error"}`, string(bytes))
		assert.NotContains(t, string(bytes), errBroken.Error())
	}
}

func TestServiceOpen(t *testing.T) {
	ctx := context.TODO()

	s := service.NewService()
	assert.NotNil(t, s.Open(ctx))

	s = service.NewService(logic.NewLogic(store.NewMemory()))
	require.Nil(t, s.Configure(envs))
	require.Nil(t, s.Open(ctx))
	assert.Nil(t, s.Close(ctx))
	assert.Nil(t, s.Close(ctx))
}
