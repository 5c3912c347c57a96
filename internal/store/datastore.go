package store

import (
	"context"
	"sort"
	"time"

	"github.com/antonio-alexander/go-employees/internal"
	"github.com/antonio-alexander/go-employees/internal/data"
	"github.com/antonio-alexander/go-employees/internal/utilities"

	"cloud.google.com/go/datastore"
	"github.com/pkg/errors"
)

const kindEmployee string = "Employee"

// employeeEntity is how an employee is stored in datastore, the key name
// is the employee id
type employeeEntity struct {
	Name    string `datastore:"name"`
	Email   string `datastore:"email"`
	PhoneNo string `datastore:"phone_no"`
	Team    string `datastore:"team"`
	Status  string `datastore:"status"`
	Created int64  `datastore:"created"` //unix nano, used for ordering
}

func (e *employeeEntity) toEmployee(id string) *data.Employee {
	return &data.Employee{
		Id:      id,
		Name:    e.Name,
		Email:   e.Email,
		PhoneNo: e.PhoneNo,
		Team:    e.Team,
		Status:  e.Status,
	}
}

type datastoreStore struct {
	client *datastore.Client
	config struct {
		projectId      string
		namespace      string
		connectTimeout time.Duration
	}
	utilities.Logger
}

// NewDatastore creates a store backed by a Google Cloud Datastore kind,
// DATASTORE_EMULATOR_HOST is honoured by the client
func NewDatastore(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Store
} {
	d := &datastoreStore{Logger: utilities.NewNopLogger()}
	d.config.connectTimeout = defaultConnectTimeout
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			d.Logger = p
		}
	}
	return d
}

func (d *datastoreStore) Configure(envs map[string]string) error {
	if projectId, ok := envs["DATASTORE_PROJECT_ID"]; ok {
		d.config.projectId = projectId
	}
	if namespace, ok := envs["DATASTORE_NAMESPACE"]; ok {
		d.config.namespace = namespace
	}
	if timeout, ok := connectTimeout(envs); ok {
		d.config.connectTimeout = timeout
	}
	return nil
}

func (d *datastoreStore) Open(ctx context.Context) error {
	client, err := datastore.NewClient(ctx, d.config.projectId)
	if err != nil {
		return errors.Wrap(err, "unable to create datastore client")
	}
	if err := connect(ctx, d.config.connectTimeout, func(ctx context.Context) error {
		_, err := client.GetAll(ctx, d.query().KeysOnly().Limit(1), nil)
		return err
	}); err != nil {
		_ = client.Close()
		return errors.Wrap(err, "unable to connect to datastore")
	}
	d.client = client
	d.Info(ctx, "connected to datastore: %s", d.config.projectId)
	return nil
}

func (d *datastoreStore) Close(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	if err := d.client.Close(); err != nil {
		d.Error(ctx, "error while closing datastore client: %s", err)
	}
	d.client = nil
	return nil
}

func (d *datastoreStore) key(id string) *datastore.Key {
	key := datastore.NameKey(kindEmployee, id, nil)
	key.Namespace = d.config.namespace
	return key
}

func (d *datastoreStore) query() *datastore.Query {
	return datastore.NewQuery(kindEmployee).Namespace(d.config.namespace)
}

func (d *datastoreStore) Clear(ctx context.Context) error {
	keys, err := d.client.GetAll(ctx, d.query().KeysOnly(), nil)
	if err != nil {
		return errors.Wrap(err, "error while clearing employees")
	}
	if len(keys) <= 0 {
		return nil
	}
	if err := d.client.DeleteMulti(ctx, keys); err != nil {
		return errors.Wrap(err, "error while clearing employees")
	}
	return nil
}

// matching returns every employee matching the status of filter, ordered
// by creation; datastore has no substring filters so the caller still
// has to apply name and email
func (d *datastoreStore) matching(ctx context.Context, filter data.EmployeeFilter) ([]*data.Employee, error) {
	var entities []employeeEntity

	query := d.query()
	if filter.Status != "" {
		query = query.FilterField("status", "=", filter.Status)
	}
	keys, err := d.client.GetAll(ctx, query, &entities)
	if err != nil {
		return nil, errors.Wrap(err, "error while searching employees")
	}
	indexes := make([]int, len(entities))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(i, j int) bool {
		return entities[indexes[i]].Created < entities[indexes[j]].Created
	})
	employees := make([]*data.Employee, 0, len(entities))
	for _, i := range indexes {
		employees = append(employees, entities[i].toEmployee(keys[i].Name))
	}
	return employees, nil
}

func (d *datastoreStore) EmployeeCreate(ctx context.Context, employeeCreate data.EmployeeCreate) (*data.Employee, error) {
	employee := employeeCreate.ToEmployee(internal.GenerateId())
	entity := &employeeEntity{
		Name:    employee.Name,
		Email:   employee.Email,
		PhoneNo: employee.PhoneNo,
		Team:    employee.Team,
		Status:  employee.Status,
		Created: time.Now().UnixNano(),
	}
	if _, err := d.client.Put(ctx, d.key(employee.Id), entity); err != nil {
		return nil, errors.Wrap(err, "error while creating employee")
	}
	return employee, nil
}

func (d *datastoreStore) read(ctx context.Context, id string) (*employeeEntity, error) {
	entity := &employeeEntity{}
	if err := d.client.Get(ctx, d.key(id), entity); err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, data.ErrEmployeeNotFound
		}
		return nil, errors.Wrapf(err, "error while reading employee %s", id)
	}
	return entity, nil
}

func (d *datastoreStore) EmployeeRead(ctx context.Context, id string) (*data.Employee, error) {
	entity, err := d.read(ctx, id)
	if err != nil {
		return nil, err
	}
	return entity.toEmployee(id), nil
}

func (d *datastoreStore) EmployeesSearch(ctx context.Context, filter data.EmployeeFilter, skip, limit int) ([]*data.Employee, error) {
	employees, err := d.matching(ctx, filter)
	if err != nil {
		return nil, err
	}
	return paginate(employees, filter, skip, limit), nil
}

func (d *datastoreStore) EmployeesCount(ctx context.Context, filter data.EmployeeFilter) (int64, error) {
	if filter.Name == "" && filter.Email == "" {
		query := d.query()
		if filter.Status != "" {
			query = query.FilterField("status", "=", filter.Status)
		}
		total, err := d.client.Count(ctx, query)
		if err != nil {
			return 0, errors.Wrap(err, "error while counting employees")
		}
		return int64(total), nil
	}
	employees, err := d.matching(ctx, filter)
	if err != nil {
		return 0, err
	}
	return count(employees, filter), nil
}

// EmployeeUpdate reads and writes within a transaction so an employee
// deleted in between isn't written back
func (d *datastoreStore) EmployeeUpdate(ctx context.Context, id string, employeeUpdate data.EmployeeUpdate) (*data.Employee, error) {
	var employee *data.Employee

	key := d.key(id)
	if _, err := d.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		entity := &employeeEntity{}
		if err := tx.Get(key, entity); err != nil {
			if errors.Is(err, datastore.ErrNoSuchEntity) {
				return data.ErrEmployeeNotFound
			}
			return err
		}
		employee = entity.toEmployee(id)
		employeeUpdate.Apply(employee)
		entity.Name, entity.Email = employee.Name, employee.Email
		entity.PhoneNo, entity.Team = employee.PhoneNo, employee.Team
		_, err := tx.Put(key, entity)
		return err
	}); err != nil {
		if errors.Is(err, data.ErrEmployeeNotFound) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "error while updating employee %s", id)
	}
	return employee, nil
}

func (d *datastoreStore) EmployeeDelete(ctx context.Context, id string) error {
	if err := d.client.Delete(ctx, d.key(id)); err != nil {
		return errors.Wrapf(err, "error while deleting employee %s", id)
	}
	return nil
}
