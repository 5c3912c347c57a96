package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employees/internal"
	"github.com/antonio-alexander/go-employees/internal/data"
	"github.com/antonio-alexander/go-employees/internal/logic"
	"github.com/antonio-alexander/go-employees/internal/utilities"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

const defaultShutdownTimeout time.Duration = 10 * time.Second

type service struct {
	sync.RWMutex
	sync.WaitGroup
	config struct {
		address          string
		port             string
		shutdownTimeout  time.Duration
		allowedOrigins   []string
		allowedMethods   []string
		allowedHeaders   []string
		allowCredentials bool
		corsDisabled     bool
		corsDebug        bool
		timersEnabled    bool
	}
	ctx     context.Context
	cancel  context.CancelFunc
	handler http.Handler
	*mux.Router
	server *http.Server
	logic  *logic.Logic
	utilities.Logger
	utilities.Counter
	utilities.Timers
}

// NewService creates the http surface for the employees api; the routes
// are built here so the returned value can be used as a handler without
// being opened
func NewService(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	http.Handler
} {
	s := &service{
		Router: mux.NewRouter(),
		Logger: utilities.NewNopLogger(),
	}
	s.config.shutdownTimeout = defaultShutdownTimeout
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case *logic.Logic:
			s.logic = p
		case utilities.Counter:
			s.Counter = p
		case utilities.Timers:
			s.Timers = p
		case utilities.Logger:
			s.Logger = p
		}
	}
	s.buildRoutes()
	s.buildHandler()
	return s
}

func (s *service) buildHandler() {
	if s.config.corsDisabled {
		s.handler = s.Router
		return
	}
	s.handler = cors.New(cors.Options{
		AllowedOrigins:   s.config.allowedOrigins,
		AllowCredentials: s.config.allowCredentials,
		AllowedMethods:   s.config.allowedMethods,
		AllowedHeaders:   s.config.allowedHeaders,
		Debug:            s.config.corsDebug,
	}).Handler(s.Router)
}

func (s *service) launchServer() error {
	started := make(chan struct{})
	chErr := make(chan error, 1)
	s.Add(1)
	go func() {
		defer s.WaitGroup.Done()
		defer close(chErr)

		close(started)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			chErr <- err
		}
	}()
	<-started
	select {
	case err := <-chErr:
		//KIM: here we're accounting for a situation where the server closes unexexpectedly
		// but quickly (within a second of starting); this allows us to respond to errors such as
		// the port being already used
		return err
	case <-time.After(time.Second):
		s.Info(s.ctx, "started server: %s", s.server.Addr)
		return nil
	}
}

func (s *service) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.RLock()
	handler := s.handler
	s.RUnlock()

	handler.ServeHTTP(writer, request)
}

// requestContext attaches the request's correlation id (or a new one) to
// its context and echoes it back to the caller
func (s *service) requestContext(writer http.ResponseWriter, request *http.Request) context.Context {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	writer.Header().Set(data.HeaderCorrelationId, internal.CorrelationIdFromCtx(ctx))
	return ctx
}

// measure starts a timer for group, the returned function stops it
func (s *service) measure(ctx context.Context, group string) func() {
	if !s.config.timersEnabled || s.Timers == nil {
		return func() {}
	}
	timerIndex := s.Timers.Start(group)
	return func() {
		elapsedTime := s.Timers.Stop(group, timerIndex)
		s.Trace(ctx, "%s took %v", group, time.Duration(elapsedTime)*time.Nanosecond)
	}
}

// outcome counts and logs the result of an operation
func (s *service) outcome(ctx context.Context, operation string, err error) {
	if err == nil {
		if s.Counter != nil {
			s.Counter.IncrementSuccess(operation)
		}
		s.Trace(ctx, "executed %s", operation)
		return
	}
	if s.Counter != nil {
		s.Counter.IncrementFailure(operation)
	}
	if statusCode, _ := errorResponse(err); statusCode == http.StatusInternalServerError {
		s.Error(ctx, "error while executing %s: %s", operation, err)
		return
	}
	s.Debug(ctx, "rejected %s: %s", operation, err)
}

func (s *service) endpointDefault() func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		fmt.Fprintf(writer,
			"go-employees\n"+
				"Version: \"%s\"\n"+
				"Git Commit: \"%s\"\n"+
				"Git Branch: \"%s\"\n",
			Version, GitCommit, GitBranch)
	}
}

func (s *service) endpointEmployeesList(writer http.ResponseWriter, request *http.Request) {
	var search data.EmployeeSearch

	ctx := s.requestContext(writer, request)
	defer s.measure(ctx, "employees_list")()
	search.FromParams(request.URL.Query())
	response, err := s.logic.EmployeesList(ctx, search)
	s.outcome(ctx, "employees_list", err)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, response)
}

func (s *service) endpointEmployeeCreate(writer http.ResponseWriter, request *http.Request) {
	var employeeCreate data.EmployeeCreate

	ctx := s.requestContext(writer, request)
	defer s.measure(ctx, "employee_create")()
	if err := readJson(request, &employeeCreate); err != nil {
		s.outcome(ctx, "employee_create", err)
		handleResponse(writer, err)
		return
	}
	employee, err := s.logic.EmployeeCreate(ctx, employeeCreate)
	s.outcome(ctx, "employee_create", err)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, employee)
}

func (s *service) endpointEmployeeRead(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.measure(ctx, "employee_read")()
	id := idFromPath(mux.Vars(request))
	employee, err := s.logic.EmployeeRead(ctx, id)
	s.outcome(ctx, "employee_read", err)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.EmployeeResponse{
		Employee: employee,
	})
}

func (s *service) endpointEmployeeUpdate(writer http.ResponseWriter, request *http.Request) {
	var employeeUpdate data.EmployeeUpdate

	ctx := s.requestContext(writer, request)
	defer s.measure(ctx, "employee_update")()
	id := idFromPath(mux.Vars(request))
	if err := readJson(request, &employeeUpdate); err != nil {
		s.outcome(ctx, "employee_update", err)
		handleResponse(writer, err)
		return
	}
	employee, err := s.logic.EmployeeUpdate(ctx, id, employeeUpdate)
	s.outcome(ctx, "employee_update", err)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, employee)
}

func (s *service) endpointEmployeeDelete(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.measure(ctx, "employee_delete")()
	id := idFromPath(mux.Vars(request))
	err := s.logic.EmployeeDelete(ctx, id)
	s.outcome(ctx, "employee_delete", err)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, data.MessageEmployeeDeleted)
}

func (s *service) endpointTimersRead(writer http.ResponseWriter, _ *http.Request) {
	if s.Timers == nil {
		handleResponse(writer, nil, &data.Timers{})
		return
	}
	handleResponse(writer, nil, s.Timers.ReadAll())
}

func (s *service) endpointTimersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	if s.Timers != nil {
		s.Timers.Clear()
	}
	handleResponse(writer, nil)
	s.Trace(ctx, "executed timers_clear")
}

func (s *service) endpointCountersRead(writer http.ResponseWriter, _ *http.Request) {
	if s.Counter == nil {
		handleResponse(writer, nil, &data.Counters{})
		return
	}
	handleResponse(writer, nil, s.Counter.ReadAll())
}

func (s *service) endpointCountersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	if s.Counter != nil {
		s.Counter.Reset()
	}
	handleResponse(writer, nil)
	s.Trace(ctx, "executed counters_clear")
}

func (s *service) buildRoutes() {
	s.Router.HandleFunc("/", s.endpointDefault())
	s.Router.HandleFunc(data.RouteEmployees, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeesList(w, r)
		case http.MethodPost:
			s.endpointEmployeeCreate(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteEmployeesId, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeeRead(w, r)
		case http.MethodPut:
			s.endpointEmployeeUpdate(w, r)
		case http.MethodDelete:
			s.endpointEmployeeDelete(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteTimers, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointTimersRead(w, r)
		case http.MethodDelete:
			s.endpointTimersClear(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteCounters, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointCountersRead(w, r)
		case http.MethodDelete:
			s.endpointCountersClear(w, r)
		}
	})
}

func (s *service) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	if address, ok := envs["SERVICE_ADDRESS"]; ok {
		s.config.address = address
	}
	if port, ok := envs["SERVICE_PORT"]; ok {
		s.config.port = port
	}
	if shutdownTimeoutString, ok := envs["SERVICE_SHUTDOWN_TIMEOUT"]; ok {
		if shutdownTimeoutInt, err := strconv.Atoi(shutdownTimeoutString); err == nil {
			if timeout := time.Duration(shutdownTimeoutInt) * time.Second; timeout > 0 {
				s.config.shutdownTimeout = timeout
			}
		}
	}
	if allowCredentialsString, ok := envs["SERVICE_CORS_ALLOW_CREDENTIALS"]; ok {
		if allowCredentials, err := strconv.ParseBool(allowCredentialsString); err == nil {
			s.config.allowCredentials = allowCredentials
		}
	}
	if allowedOrigins := envs["SERVICE_CORS_ALLOWED_ORIGINS"]; allowedOrigins != "" {
		s.config.allowedOrigins = strings.Split(allowedOrigins, ",")
	}
	if allowedMethods := envs["SERVICE_CORS_ALLOWED_METHODS"]; allowedMethods != "" {
		s.config.allowedMethods = strings.Split(allowedMethods, ",")
	}
	if allowedHeaders := envs["SERVICE_CORS_ALLOWED_HEADERS"]; allowedHeaders != "" {
		s.config.allowedHeaders = strings.Split(allowedHeaders, ",")
	}
	if corsDisabledString, ok := envs["SERVICE_CORS_DISABLED"]; ok {
		if corsDisabled, err := strconv.ParseBool(corsDisabledString); err == nil {
			s.config.corsDisabled = corsDisabled
		}
	}
	if corsDebug, ok := envs["SERVICE_CORS_DEBUG"]; ok {
		if corsDebug, err := strconv.ParseBool(corsDebug); err == nil {
			s.config.corsDebug = corsDebug
		}
	}
	if timersEnabled := envs["SERVICE_TIMERS_ENABLED"]; timersEnabled != "" {
		s.config.timersEnabled, _ = strconv.ParseBool(timersEnabled)
	}
	s.buildHandler()
	return nil
}

func (s *service) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.logic == nil {
		return errors.New("service: no logic provided")
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.server = &http.Server{
		Addr:    net.JoinHostPort(s.config.address, s.config.port),
		Handler: s.handler,
	}
	if err := s.launchServer(); err != nil {
		s.cancel()
		return err
	}
	return nil
}

func (s *service) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.Error(ctx, "error while shutting down the server: %s", err)
	}
	s.cancel()
	s.Wait()
	s.server = nil
	return nil
}
