package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/antonio-alexander/go-employees/internal"
	"github.com/antonio-alexander/go-employees/internal/data"
	"github.com/antonio-alexander/go-employees/internal/utilities"

	_ "github.com/go-sql-driver/mysql" //import for driver support
	"github.com/pkg/errors"
)

// the employees table is expected to exist:
//
//	CREATE TABLE employees (
//	    seq BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
//	    id CHAR(36) NOT NULL UNIQUE,
//	    name VARCHAR(255) NOT NULL DEFAULT '',
//	    email VARCHAR(255) NOT NULL DEFAULT '',
//	    phone_no VARCHAR(64) NOT NULL DEFAULT '',
//	    team VARCHAR(255) NOT NULL DEFAULT '',
//	    status VARCHAR(32) NOT NULL DEFAULT ''
//	);
const (
	tableEmployees  string = "employees"
	columnsEmployee string = "id, name, email, phone_no, team, status"
)

type mySql struct {
	config struct {
		Hostname       string        `json:"hostname"`
		Port           string        `json:"port"`
		Username       string        `json:"username"`
		Password       string        `json:"password"`
		Database       string        `json:"database"`
		ConnectTimeout time.Duration `json:"connect_timeout"`
		ParseTime      bool          `json:"parse_time"`
	}
	*sql.DB
	utilities.Logger
	opened bool
}

func NewMySql(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Store
} {
	m := &mySql{Logger: utilities.NewNopLogger()}
	m.config.ConnectTimeout = defaultConnectTimeout
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case utilities.Logger:
			m.Logger = v
		}
	}
	return m
}

func (s *mySql) Configure(envs map[string]string) error {
	if databaseHost := envs["DATABASE_HOST"]; databaseHost != "" {
		s.config.Hostname = databaseHost
	}
	if databasePort := envs["DATABASE_PORT"]; databasePort != "" {
		s.config.Port = databasePort
	}
	if database := envs["DATABASE_NAME"]; database != "" {
		s.config.Database = database
	}
	if username := envs["DATABASE_USER"]; username != "" {
		s.config.Username = username
	}
	if password := envs["DATABASE_PASSWORD"]; password != "" {
		s.config.Password = password
	}
	if _, ok := envs["DATABASE_PARSE_TIME"]; ok {
		s.config.ParseTime, _ = strconv.ParseBool(envs["DATABASE_PARSE_TIME"])
	}
	if timeout, ok := connectTimeout(envs); ok {
		s.config.ConnectTimeout = timeout
	}
	return nil
}

func (s *mySql) Open(ctx context.Context) error {
	dataSourceName := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=%t",
		s.config.Username, s.config.Password, s.config.Hostname,
		s.config.Port, s.config.Database, s.config.ParseTime)
	db, err := sql.Open("mysql", dataSourceName)
	if err != nil {
		return err
	}
	if err := connect(ctx, s.config.ConnectTimeout, db.PingContext); err != nil {
		_ = db.Close()
		return errors.Wrap(err, "unable to connect to mysql")
	}
	s.DB = db
	s.opened = true
	s.Info(ctx, "connected to mysql: %s:%s/%s", s.config.Hostname,
		s.config.Port, s.config.Database)
	return nil
}

func (s *mySql) Close(ctx context.Context) error {
	if !s.opened {
		return nil
	}
	if err := s.DB.Close(); err != nil {
		s.Error(ctx, "error while closing sql: %s", err)
	}
	s.opened = false
	return nil
}

func (s *mySql) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s;", tableEmployees)
	if _, err := s.ExecContext(ctx, query); err != nil {
		return errors.Wrap(err, "error while clearing employees")
	}
	return nil
}

func (s *mySql) EmployeeCreate(ctx context.Context, employeeCreate data.EmployeeCreate) (*data.Employee, error) {
	employee := employeeCreate.ToEmployee(internal.GenerateId())
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?);",
		tableEmployees, columnsEmployee)
	if _, err := s.ExecContext(ctx, query, employee.Id, employee.Name,
		employee.Email, employee.PhoneNo, employee.Team, employee.Status); err != nil {
		return nil, errors.Wrap(err, "error while creating employee")
	}
	return s.EmployeeRead(ctx, employee.Id)
}

func (s *mySql) EmployeeRead(ctx context.Context, id string) (*data.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?;",
		columnsEmployee, tableEmployees)
	row := s.QueryRowContext(ctx, query, id)
	employee, err := employeeScan(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, data.ErrEmployeeNotFound
		}
		return nil, errors.Wrapf(err, "error while reading employee %s", id)
	}
	return employee, nil
}

func (s *mySql) EmployeesSearch(ctx context.Context, filter data.EmployeeFilter, skip, limit int) ([]*data.Employee, error) {
	var employees []*data.Employee

	criteria, args := employeeCriteria(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY seq LIMIT ? OFFSET ?;",
		columnsEmployee, tableEmployees, criteria)
	args = append(args, limit, skip)
	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error while searching employees")
	}
	defer rows.Close()
	for rows.Next() {
		employee, err := employeeScan(rows.Scan)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error while searching employees")
	}
	return employees, nil
}

func (s *mySql) EmployeesCount(ctx context.Context, filter data.EmployeeFilter) (int64, error) {
	var total int64

	criteria, args := employeeCriteria(filter)
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s %s;", tableEmployees, criteria)
	if err := s.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "error while counting employees")
	}
	return total, nil
}

func (s *mySql) EmployeeUpdate(ctx context.Context, id string, employeeUpdate data.EmployeeUpdate) (*data.Employee, error) {
	query := fmt.Sprintf(`UPDATE %s SET name = ?, email = ?, phone_no = ?,
		team = ? WHERE id = ?;`, tableEmployees)
	if _, err := s.ExecContext(ctx, query, employeeUpdate.Name, employeeUpdate.Email,
		employeeUpdate.PhoneNo, employeeUpdate.Team, id); err != nil {
		return nil, errors.Wrapf(err, "error while updating employee %s", id)
	}
	//KIM: rows affected is zero when nothing changed, so reading back is
	// the only way to tell if the employee exists
	return s.EmployeeRead(ctx, id)
}

func (s *mySql) EmployeeDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?;", tableEmployees)
	if _, err := s.ExecContext(ctx, query, id); err != nil {
		return errors.Wrapf(err, "error while deleting employee %s", id)
	}
	return nil
}
