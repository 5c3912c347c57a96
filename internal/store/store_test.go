package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/antonio-alexander/go-employees/internal"
	"github.com/antonio-alexander/go-employees/internal/data"
	"github.com/antonio-alexander/go-employees/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	envs = map[string]string{
		//mysql
		"DATABASE_HOST":     "localhost",
		"DATABASE_PORT":     "3306",
		"DATABASE_NAME":     "employees",
		"DATABASE_USER":     "mysql",
		"DATABASE_PASSWORD": "mysql",

		//redis
		"REDIS_ADDRESS": "localhost",
		"REDIS_PORT":    "6379",
		"REDIS_TIMEOUT": "10",

		//datastore
		"DATASTORE_PROJECT_ID": "employees",
		"DATASTORE_NAMESPACE":  "test",

		"STORE_CONNECT_TIMEOUT": "5",
		"INTEGRATION_TESTS":     "false",
	}
)

func init() {
	for key, value := range internal.Envs(os.Environ()) {
		envs[key] = value
	}
}

type storeTest struct {
	store interface {
		internal.Configurer
		internal.Opener
		internal.Clearer
	}
	store.Store
}

func newStoreTest(storeType string) *storeTest {
	s := store.New(storeType)
	return &storeTest{
		store: s,
		Store: s,
	}
}

func newEmployee(name, email, status string) data.EmployeeCreate {
	return data.EmployeeCreate{
		Name:    name,
		Email:   email,
		PhoneNo: "555-" + internal.GenerateId()[:4],
		Team:    "team-" + internal.GenerateId()[:6],
		Status:  status,
	}
}

func (s *storeTest) TestCrud(t *testing.T) {
	ctx := context.TODO()

	// create employee
	employeeCreate := newEmployee("Grace Hopper", "grace@example.com", data.StatusActive)
	employeeCreated, err := s.EmployeeCreate(ctx, employeeCreate)
	require.Nil(t, err)
	require.NotNil(t, employeeCreated)
	assert.NotEmpty(t, employeeCreated.Id)
	assert.Equal(t, employeeCreate.Name, employeeCreated.Name)
	assert.Equal(t, employeeCreate.Email, employeeCreated.Email)
	assert.Equal(t, employeeCreate.PhoneNo, employeeCreated.PhoneNo)
	assert.Equal(t, employeeCreate.Team, employeeCreated.Team)
	assert.Equal(t, employeeCreate.Status, employeeCreated.Status)
	id := employeeCreated.Id
	defer func(id string) {
		_ = s.EmployeeDelete(ctx, id)
	}(id)

	// read employee
	employeeRead, err := s.EmployeeRead(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, employeeCreated, employeeRead)

	// update employee, status must survive
	employeeUpdated, err := s.EmployeeUpdate(ctx, id, data.EmployeeUpdate{
		Name:  "Grace B. Hopper",
		Email: "hopper@example.com",
	})
	require.Nil(t, err)
	assert.Equal(t, id, employeeUpdated.Id)
	assert.Equal(t, "Grace B. Hopper", employeeUpdated.Name)
	assert.Equal(t, "hopper@example.com", employeeUpdated.Email)
	assert.Empty(t, employeeUpdated.PhoneNo)
	assert.Empty(t, employeeUpdated.Team)
	assert.Equal(t, data.StatusActive, employeeUpdated.Status)

	// read employee again
	employeeRead, err = s.EmployeeRead(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, employeeUpdated, employeeRead)

	// update missing employee
	employeeUpdated, err = s.EmployeeUpdate(ctx, internal.GenerateId(), data.EmployeeUpdate{})
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
	assert.Nil(t, employeeUpdated)

	// delete employee
	err = s.EmployeeDelete(ctx, id)
	assert.Nil(t, err)

	// read employee again
	employeeRead, err = s.EmployeeRead(ctx, id)
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
	assert.Nil(t, employeeRead)

	// delete employee again
	err = s.EmployeeDelete(ctx, id)
	assert.Nil(t, err)
}

func (s *storeTest) TestSearch(t *testing.T) {
	ctx := context.TODO()

	err := s.store.Clear(ctx)
	require.Nil(t, err)
	var ids []string
	for i := 0; i < 12; i++ {
		status := data.StatusActive
		if i%3 == 0 {
			status = data.StatusInactive
		}
		employee, err := s.EmployeeCreate(ctx, newEmployee(
			fmt.Sprintf("Employee %02d", i),
			fmt.Sprintf("employee%02d@Example.com", i),
			status,
		))
		require.Nil(t, err)
		ids = append(ids, employee.Id)
	}

	t.Run("Pagination", func(t *testing.T) {
		employees, err := s.EmployeesSearch(ctx, data.EmployeeFilter{}, 5, 5)
		require.Nil(t, err)
		require.Len(t, employees, 5)
		for i, employee := range employees {
			assert.Equal(t, ids[5+i], employee.Id)
		}
		total, err := s.EmployeesCount(ctx, data.EmployeeFilter{})
		assert.Nil(t, err)
		assert.Equal(t, int64(12), total)

		employees, err = s.EmployeesSearch(ctx, data.EmployeeFilter{}, 10, 5)
		require.Nil(t, err)
		assert.Len(t, employees, 2)

		employees, err = s.EmployeesSearch(ctx, data.EmployeeFilter{}, 20, 5)
		require.Nil(t, err)
		assert.Len(t, employees, 0)
	})

	t.Run("Name", func(t *testing.T) {
		filter := data.EmployeeFilter{Name: "EMPLOYEE 1"}
		employees, err := s.EmployeesSearch(ctx, filter, 0, 10)
		require.Nil(t, err)
		require.Len(t, employees, 2)
		assert.Equal(t, ids[10], employees[0].Id)
		assert.Equal(t, ids[11], employees[1].Id)
		total, err := s.EmployeesCount(ctx, filter)
		assert.Nil(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("Email", func(t *testing.T) {
		filter := data.EmployeeFilter{Email: "07@example"}
		employees, err := s.EmployeesSearch(ctx, filter, 0, 10)
		require.Nil(t, err)
		require.Len(t, employees, 1)
		assert.Equal(t, ids[7], employees[0].Id)
	})

	t.Run("Wildcards", func(t *testing.T) {
		employees, err := s.EmployeesSearch(ctx, data.EmployeeFilter{Name: "%"}, 0, 10)
		require.Nil(t, err)
		assert.Len(t, employees, 0)
	})

	t.Run("Status", func(t *testing.T) {
		filter := data.EmployeeFilter{Status: data.StatusInactive}
		employees, err := s.EmployeesSearch(ctx, filter, 0, 10)
		require.Nil(t, err)
		require.Len(t, employees, 4)
		for _, employee := range employees {
			assert.Equal(t, data.StatusInactive, employee.Status)
		}
		total, err := s.EmployeesCount(ctx, filter)
		assert.Nil(t, err)
		assert.Equal(t, int64(4), total)

		//status is an exact match
		total, err = s.EmployeesCount(ctx, data.EmployeeFilter{Status: "act"})
		assert.Nil(t, err)
		assert.Zero(t, total)

		//status is case sensitive
		filter = data.EmployeeFilter{Status: "INACTIVE"}
		employees, err = s.EmployeesSearch(ctx, filter, 0, 10)
		assert.Nil(t, err)
		assert.Empty(t, employees)
		total, err = s.EmployeesCount(ctx, filter)
		assert.Nil(t, err)
		assert.Zero(t, total)
	})

	t.Run("Combined", func(t *testing.T) {
		filter := data.EmployeeFilter{Name: "employee", Status: data.StatusInactive}
		employees, err := s.EmployeesSearch(ctx, filter, 2, 10)
		require.Nil(t, err)
		require.Len(t, employees, 2)
		assert.Equal(t, ids[6], employees[0].Id)
		assert.Equal(t, ids[9], employees[1].Id)
	})

	err = s.store.Clear(ctx)
	assert.Nil(t, err)
}

func (s *storeTest) TestUpdateDelete(t *testing.T) {
	var wg sync.WaitGroup

	ctx := context.TODO()
	err := s.store.Clear(ctx)
	require.Nil(t, err)
	var ids []string
	for i := 0; i < 20; i++ {
		employee, err := s.EmployeeCreate(ctx, newEmployee(fmt.Sprintf("Employee %02d", i),
			fmt.Sprintf("employee%02d@example.com", i), data.StatusActive))
		require.Nil(t, err)
		ids = append(ids, employee.Id)
	}

	// updates racing deletes must never bring an employee back
	chErr := make(chan error, 2*len(ids))
	for _, id := range ids {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()

			if _, err := s.EmployeeUpdate(ctx, id, data.EmployeeUpdate{
				Name: "updated"}); err != nil && !errors.Is(err, data.ErrEmployeeNotFound) {
				chErr <- err
			}
		}(id)
		go func(id string) {
			defer wg.Done()

			if err := s.EmployeeDelete(ctx, id); err != nil {
				chErr <- err
			}
		}(id)
	}
	wg.Wait()
	close(chErr)
	for err := range chErr {
		assert.Nil(t, err)
	}
	for _, id := range ids {
		employee, err := s.EmployeeRead(ctx, id)
		assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
		assert.Nil(t, employee)
	}
	total, err := s.EmployeesCount(ctx, data.EmployeeFilter{})
	assert.Nil(t, err)
	assert.Zero(t, total)
}

func testStore(t *testing.T, storeType string) {
	if storeType != store.TypeMemory {
		if integration, _ := strconv.ParseBool(envs["INTEGRATION_TESTS"]); !integration {
			t.Skipf("skipping %s store, INTEGRATION_TESTS isn't enabled", storeType)
		}
	}
	s := newStoreTest(storeType)

	ctx := context.TODO()
	err := s.store.Configure(envs)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure store")
	}
	err = s.store.Open(ctx)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open store")
	}
	defer func() {
		if err := s.store.Close(ctx); err != nil {
			t.Logf("error while closing store: %s", err)
		}
	}()
	t.Run("Crud", s.TestCrud)
	t.Run("Search", s.TestSearch)
	t.Run("UpdateDelete", s.TestUpdateDelete)
}

func TestStoreMemory(t *testing.T) {
	testStore(t, store.TypeMemory)
}

func TestStoreMySql(t *testing.T) {
	testStore(t, store.TypeMySql)
}

func TestStoreRedis(t *testing.T) {
	testStore(t, store.TypeRedis)
}

func TestStoreDatastore(t *testing.T) {
	testStore(t, store.TypeDatastore)
}

func TestStoreUnknown(t *testing.T) {
	assert.Nil(t, store.New("mongodb"))
	assert.NotNil(t, store.New(""))
}
