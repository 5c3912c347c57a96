package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employees/internal"
	"github.com/antonio-alexander/go-employees/internal/data"
	"github.com/antonio-alexander/go-employees/internal/utilities"

	"github.com/pkg/errors"
)

type Client interface {
	EmployeesList(ctx context.Context, search data.EmployeeSearch) (*data.EmployeesResponse, error)
	EmployeeRead(ctx context.Context, id string) (*data.Employee, error)
	EmployeeCreate(ctx context.Context, employeeCreate data.EmployeeCreate) (*data.Employee, error)
	EmployeeUpdate(ctx context.Context, id string,
		employeeUpdate data.EmployeeUpdate) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id string) error
	TimersRead(ctx context.Context) (*data.Timers, error)
	TimersClear(ctx context.Context) error
	CountersRead(ctx context.Context) (*data.Counters, error)
	CountersClear(ctx context.Context) error
}

type client struct {
	sync.RWMutex
	config struct {
		protocol   string
		address    string
		port       string
		timeout    int64
		sslCaFile  string
		sslCrtFile string
		sslKeyFile string
	}
	address string
	utilities.Logger
	*http.Client
}

func NewClient(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Client
} {
	c := &client{
		Client: &http.Client{},
		Logger: utilities.NewNopLogger(),
	}
	c.config.protocol = "http"
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	return c
}

// responseError converts a non-200 response into the error the service
// started from where possible
func responseError(statusCode int, bytes []byte) error {
	var e data.ErrorResponse

	switch statusCode {
	case http.StatusBadRequest:
		var issues []data.Issue

		if err := json.Unmarshal(bytes, &issues); err == nil {
			return &data.ValidationError{Issues: issues}
		}
	case http.StatusNotFound:
		return data.ErrEmployeeNotFound
	}
	if err := json.Unmarshal(bytes, &e); err != nil || e.Error == "" {
		return errors.Errorf("status code: %d; %s", statusCode, string(bytes))
	}
	return errors.Errorf("status code: %d; %s", statusCode, e.Error)
}

func (c *client) doRequest(ctx context.Context, uri, method string, item any) ([]byte, error) {
	var body io.Reader

	switch d := item.(type) {
	case []byte:
		body = bytes.NewBuffer(d)
	case url.Values:
		if len(d) > 0 {
			uri = uri + "?" + d.Encode()
		}
	}
	request, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		request.Header.Set(data.HeaderCorrelationId, correlationId)
	}
	response, err := c.Do(request)
	if err != nil {
		return nil, err
	}
	bytes, err := io.ReadAll(response.Body)
	defer response.Body.Close()
	if err != nil {
		return nil, err
	}
	switch response.StatusCode {
	default:
		err := responseError(response.StatusCode, bytes)
		c.Debug(ctx, "%s %s: %s", method, uri, err)
		return nil, err
	case http.StatusOK, http.StatusNoContent:
		return bytes, nil
	}
}

func (c *client) Configure(envs map[string]string) error {
	c.Lock()
	defer c.Unlock()

	if address, ok := envs["CLIENT_ADDRESS"]; ok {
		c.config.address = address
	}
	if port, ok := envs["CLIENT_PORT"]; ok {
		c.config.port = port
	}
	if protocol := envs["CLIENT_PROTOCOL"]; protocol != "" {
		c.config.protocol = protocol
	}
	if timeout := envs["CLIENT_TIMEOUT"]; timeout != "" {
		i, err := strconv.ParseInt(timeout, 10, 64)
		if err != nil {
			return errors.Wrap(err, "CLIENT_TIMEOUT")
		}
		c.config.timeout = i
	}
	if sslCaFile, ok := envs["SSL_CA_FILE"]; ok {
		c.config.sslCaFile = sslCaFile
	}
	if sslKeyFile, ok := envs["SSL_KEY_FILE"]; ok {
		c.config.sslKeyFile = sslKeyFile
	}
	if sslCrtFile, ok := envs["SSL_CRT_FILE"]; ok {
		c.config.sslCrtFile = sslCrtFile
	}
	return nil
}

func (c *client) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	switch c.config.protocol {
	default:
		return errors.Errorf("unsupported protocol: %s", c.config.protocol)
	case "http", "https":
		address := c.config.address
		if c.config.port != "" {
			address = net.JoinHostPort(c.config.address, c.config.port)
		}
		c.address = fmt.Sprintf("%s://%s", c.config.protocol, address)
	}
	c.Client.Timeout = time.Duration(c.config.timeout) * time.Second
	tlsConfig, err := getTlsConfig(c.config.sslCaFile, c.config.sslCrtFile,
		c.config.sslKeyFile)
	if err != nil {
		return err
	}
	c.Client.Transport = tlsConfig
	c.Debug(ctx, "client configured for %s", c.address)
	return nil
}

func (c *client) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.Client.CloseIdleConnections()
	return nil
}

func (c *client) EmployeesList(ctx context.Context, search data.EmployeeSearch) (*data.EmployeesResponse, error) {
	uri := c.address + data.RouteEmployees
	bytes, err := c.doRequest(ctx, uri, http.MethodGet, search.ToParams())
	if err != nil {
		return nil, err
	}
	response := &data.EmployeesResponse{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	return response, nil
}

// EmployeeRead returns nil, without an error, when the employee doesn't
// exist
func (c *client) EmployeeRead(ctx context.Context, id string) (*data.Employee, error) {
	uri := c.address + fmt.Sprintf(data.RouteEmployeesIdf, url.PathEscape(id))
	bytes, err := c.doRequest(ctx, uri, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	response := &data.EmployeeResponse{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	return response.Employee, nil
}

func (c *client) EmployeeCreate(ctx context.Context, employeeCreate data.EmployeeCreate) (*data.Employee, error) {
	bytes, err := json.Marshal(&employeeCreate)
	if err != nil {
		return nil, err
	}
	uri := c.address + data.RouteEmployees
	bytes, err = c.doRequest(ctx, uri, http.MethodPost, bytes)
	if err != nil {
		return nil, err
	}
	employee := &data.Employee{}
	if err := json.Unmarshal(bytes, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (c *client) EmployeeUpdate(ctx context.Context, id string, employeeUpdate data.EmployeeUpdate) (*data.Employee, error) {
	bytes, err := json.Marshal(&employeeUpdate)
	if err != nil {
		return nil, err
	}
	uri := c.address + fmt.Sprintf(data.RouteEmployeesIdf, url.PathEscape(id))
	bytes, err = c.doRequest(ctx, uri, http.MethodPut, bytes)
	if err != nil {
		return nil, err
	}
	employee := &data.Employee{}
	if err := json.Unmarshal(bytes, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (c *client) EmployeeDelete(ctx context.Context, id string) error {
	uri := c.address + fmt.Sprintf(data.RouteEmployeesIdf, url.PathEscape(id))
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}

func (c *client) TimersRead(ctx context.Context) (*data.Timers, error) {
	bytes, err := c.doRequest(ctx, c.address+data.RouteTimers, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	response := &data.Timers{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) TimersClear(ctx context.Context) error {
	if _, err := c.doRequest(ctx, c.address+data.RouteTimers, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}

func (c *client) CountersRead(ctx context.Context) (*data.Counters, error) {
	bytes, err := c.doRequest(ctx, c.address+data.RouteCounters, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	response := &data.Counters{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) CountersClear(ctx context.Context) error {
	if _, err := c.doRequest(ctx, c.address+data.RouteCounters, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}
