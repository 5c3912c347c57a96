package logic

import (
	"context"
	"sync"

	"github.com/antonio-alexander/go-employees/internal/data"
	"github.com/antonio-alexander/go-employees/internal/store"
	"github.com/antonio-alexander/go-employees/internal/utilities"
	"github.com/antonio-alexander/go-employees/internal/validation"

	"github.com/pkg/errors"
)

// Logic translates employee requests into store calls; it holds no
// state of its own so it's safe to share between requests
type Logic struct {
	sync.RWMutex
	store     store.Store
	validator validation.Validator
	utilities.Logger
}

func NewLogic(parameters ...interface{}) *Logic {
	l := &Logic{
		Logger:    utilities.NewNopLogger(),
		validator: validation.NewValidator(),
	}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case store.Store:
			l.store = v
		case validation.Validator:
			l.validator = v
		case utilities.Logger:
			l.Logger = v
		}
	}
	return l
}

func (l *Logic) Configure(envs map[string]string) error {
	return nil
}

func (l *Logic) Open(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	if l.store == nil {
		return errors.New("logic: no store provided")
	}
	return nil
}

func (l *Logic) Close(ctx context.Context) error {
	return nil
}

// EmployeesList returns one page of the employees matching search along
// with the pagination metadata
func (l *Logic) EmployeesList(ctx context.Context, search data.EmployeeSearch) (*data.EmployeesResponse, error) {
	page, limit := search.Pagination()
	filter := search.Filter()
	skip := (page - 1) * limit
	employees, err := l.store.EmployeesSearch(ctx, filter, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := l.store.EmployeesCount(ctx, filter)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []*data.Employee{}
	}
	l.Debug(ctx, "listed %d of %d employees (%s)", len(employees), total, search.String())
	return &data.EmployeesResponse{
		Employees: employees,
		Meta:      data.NewMeta(total, page, limit),
	}, nil
}

// EmployeeRead returns nil, without an error, when the employee doesn't
// exist
func (l *Logic) EmployeeRead(ctx context.Context, id string) (*data.Employee, error) {
	employee, err := l.store.EmployeeRead(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrEmployeeNotFound) {
			l.Debug(ctx, "employee %s not found", id)
			return nil, nil
		}
		return nil, err
	}
	return employee, nil
}

func (l *Logic) EmployeeCreate(ctx context.Context, employeeCreate data.EmployeeCreate) (*data.Employee, error) {
	if err := l.validator.Validate(employeeCreate); err != nil {
		return nil, err
	}
	return l.store.EmployeeCreate(ctx, employeeCreate)
}

// EmployeeUpdate overwrites name, email, phone_no and team; empty values
// are written as-is
func (l *Logic) EmployeeUpdate(ctx context.Context, id string, employeeUpdate data.EmployeeUpdate) (*data.Employee, error) {
	return l.store.EmployeeUpdate(ctx, id, employeeUpdate)
}

func (l *Logic) EmployeeDelete(ctx context.Context, id string) error {
	return l.store.EmployeeDelete(ctx, id)
}
