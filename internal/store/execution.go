package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/antonio-alexander/go-employees/internal/data"

	"github.com/cenkalti/backoff/v5"
)

const defaultConnectTimeout = 30 * time.Second

// connect pings until it succeeds or timeout elapses, it's only used
// while opening the long-lived connection
func connect(ctx context.Context, timeout time.Duration, pingFx func(ctx context.Context) error) error {
	options := []backoff.RetryOption{backoff.WithBackOff(backoff.NewExponentialBackOff())}
	switch {
	default:
		options = append(options, backoff.WithMaxElapsedTime(timeout))
	case timeout <= 0:
		options = append(options, backoff.WithMaxTries(1))
	}
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, pingFx(ctx)
	}, options...)
	return err
}

func connectTimeout(envs map[string]string) (time.Duration, bool) {
	s, ok := envs["STORE_CONNECT_TIMEOUT"]
	if !ok {
		return 0, false
	}
	i, _ := strconv.Atoi(s)
	return time.Duration(i) * time.Second, true
}

func copyEmployee(e *data.Employee) *data.Employee {
	employee := &data.Employee{}
	*employee = *e
	return employee
}

// paginate applies skip and limit to the employees that match filter,
// it's used by the stores that can't filter natively
func paginate(employees []*data.Employee, filter data.EmployeeFilter, skip, limit int) []*data.Employee {
	var page []*data.Employee

	for _, employee := range employees {
		if !filter.Match(employee) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		if limit > 0 && len(page) >= limit {
			break
		}
		page = append(page, copyEmployee(employee))
	}
	return page
}

func count(employees []*data.Employee, filter data.EmployeeFilter) int64 {
	var n int64

	for _, employee := range employees {
		if filter.Match(employee) {
			n++
		}
	}
	return n
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func employeeCriteria(filter data.EmployeeFilter) (string, []interface{}) {
	var args []interface{}
	var criteria []string

	if filter.Name != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(filter.Name))+"%")
		criteria = append(criteria, "LOWER(name) LIKE ?")
	}
	if filter.Email != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(filter.Email))+"%")
		criteria = append(criteria, "LOWER(email) LIKE ?")
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		criteria = append(criteria, "BINARY status = ?")
	}
	if len(criteria) <= 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(criteria, " AND "), args
}

func employeeScan(scanFx func(...interface{}) error) (*data.Employee, error) {
	employee := new(data.Employee)
	if err := scanFx(
		&employee.Id,
		&employee.Name,
		&employee.Email,
		&employee.PhoneNo,
		&employee.Team,
		&employee.Status,
	); err != nil {
		return nil, err
	}
	return employee, nil
}
