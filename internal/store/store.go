package store

import (
	"context"

	"github.com/antonio-alexander/go-employees/internal"
	"github.com/antonio-alexander/go-employees/internal/data"
)

const (
	TypeMemory    string = "memory"
	TypeMySql     string = "mysql"
	TypeRedis     string = "redis"
	TypeDatastore string = "datastore"
)

// Store is the employee document collection; records are returned in
// the order they were created. EmployeeRead and EmployeeUpdate return
// data.ErrEmployeeNotFound for an unknown id, EmployeeDelete doesn't
type Store interface {
	EmployeeCreate(ctx context.Context, employeeCreate data.EmployeeCreate) (*data.Employee, error)
	EmployeeRead(ctx context.Context, id string) (*data.Employee, error)
	EmployeesSearch(ctx context.Context, filter data.EmployeeFilter, skip, limit int) ([]*data.Employee, error)
	EmployeesCount(ctx context.Context, filter data.EmployeeFilter) (int64, error)
	EmployeeUpdate(ctx context.Context, id string, employeeUpdate data.EmployeeUpdate) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id string) error
}

// New creates the store identified by storeType, it returns nil if the
// type is unknown
func New(storeType string, parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Store
} {
	switch storeType {
	default:
		return nil
	case TypeMemory, "":
		return NewMemory(parameters...)
	case TypeMySql:
		return NewMySql(parameters...)
	case TypeRedis:
		return NewRedis(parameters...)
	case TypeDatastore:
		return NewDatastore(parameters...)
	}
}
