package store

import (
	"context"
	"sync"

	"github.com/antonio-alexander/go-employees/internal"
	"github.com/antonio-alexander/go-employees/internal/data"
	"github.com/antonio-alexander/go-employees/internal/utilities"
)

type memoryStore struct {
	sync.RWMutex
	employees map[string]*data.Employee //map[id]employee
	order     []string                  //ids in insertion order
	utilities.Logger
}

// NewMemory creates an in-process store, its contents live as long as
// the process does
func NewMemory(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Store
} {
	m := &memoryStore{
		Logger:    utilities.NewNopLogger(),
		employees: make(map[string]*data.Employee),
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			m.Logger = p
		}
	}
	return m
}

func (m *memoryStore) Configure(envs map[string]string) error {
	return nil
}

func (m *memoryStore) Open(ctx context.Context) error {
	m.Info(ctx, "opened memory store")
	return nil
}

func (m *memoryStore) Close(ctx context.Context) error {
	return nil
}

func (m *memoryStore) Clear(ctx context.Context) error {
	m.Lock()
	defer m.Unlock()

	m.employees = make(map[string]*data.Employee)
	m.order = nil
	return nil
}

func (m *memoryStore) list() []*data.Employee {
	employees := make([]*data.Employee, 0, len(m.order))
	for _, id := range m.order {
		employees = append(employees, m.employees[id])
	}
	return employees
}

func (m *memoryStore) EmployeeCreate(ctx context.Context, employeeCreate data.EmployeeCreate) (*data.Employee, error) {
	m.Lock()
	defer m.Unlock()

	employee := employeeCreate.ToEmployee(internal.GenerateId())
	m.employees[employee.Id] = employee
	m.order = append(m.order, employee.Id)
	return copyEmployee(employee), nil
}

func (m *memoryStore) EmployeeRead(ctx context.Context, id string) (*data.Employee, error) {
	m.RLock()
	defer m.RUnlock()

	employee, ok := m.employees[id]
	if !ok {
		return nil, data.ErrEmployeeNotFound
	}
	return copyEmployee(employee), nil
}

func (m *memoryStore) EmployeesSearch(ctx context.Context, filter data.EmployeeFilter, skip, limit int) ([]*data.Employee, error) {
	m.RLock()
	defer m.RUnlock()

	return paginate(m.list(), filter, skip, limit), nil
}

func (m *memoryStore) EmployeesCount(ctx context.Context, filter data.EmployeeFilter) (int64, error) {
	m.RLock()
	defer m.RUnlock()

	return count(m.list(), filter), nil
}

func (m *memoryStore) EmployeeUpdate(ctx context.Context, id string, employeeUpdate data.EmployeeUpdate) (*data.Employee, error) {
	m.Lock()
	defer m.Unlock()

	employee, ok := m.employees[id]
	if !ok {
		return nil, data.ErrEmployeeNotFound
	}
	employeeUpdate.Apply(employee)
	return copyEmployee(employee), nil
}

func (m *memoryStore) EmployeeDelete(ctx context.Context, id string) error {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.employees[id]; !ok {
		return nil
	}
	delete(m.employees, id)
	for i, orderedId := range m.order {
		if orderedId == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
