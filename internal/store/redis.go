package store

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/antonio-alexander/go-employees/internal"
	"github.com/antonio-alexander/go-employees/internal/data"
	"github.com/antonio-alexander/go-employees/internal/utilities"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	hashKeyEmployees    string = "employees"          //hash[id]employee json
	setKeyEmployees     string = "employees_order"    //sorted set of ids, scored by sequence
	keyEmployeeSequence string = "employees_sequence" //incremented for every create
)

const maxTxAttempts int = 10

type redisStore struct {
	redisClient *redis.Client
	config      struct {
		address        string
		port           string
		password       string
		database       int
		timeout        time.Duration
		connectTimeout time.Duration
	}
	utilities.Logger
}

// NewRedis creates a store that keeps each employee as a json document
// in a redis hash
func NewRedis(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Store
} {
	c := &redisStore{Logger: utilities.NewNopLogger()}
	c.config.connectTimeout = defaultConnectTimeout
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	return c
}

func (c *redisStore) Configure(envs map[string]string) error {
	if redisAddress, ok := envs["REDIS_ADDRESS"]; ok {
		c.config.address = redisAddress
	}
	if redisPort, ok := envs["REDIS_PORT"]; ok {
		c.config.port = redisPort
	}
	if redisPassword, ok := envs["REDIS_PASSWORD"]; ok {
		c.config.password = redisPassword
	}
	if redisDatabase, ok := envs["REDIS_DATABASE"]; ok {
		i, _ := strconv.ParseInt(redisDatabase, 10, 64)
		c.config.database = int(i)
	}
	if redisTimeout, ok := envs["REDIS_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(redisTimeout, 10, 64)
		c.config.timeout = time.Duration(i) * time.Second
	}
	if timeout, ok := connectTimeout(envs); ok {
		c.config.connectTimeout = timeout
	}
	return nil
}

func (c *redisStore) Open(ctx context.Context) error {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(c.config.address, c.config.port),
		Password: c.config.password,
		DB:       c.config.database,
	})
	if err := connect(ctx, c.config.connectTimeout, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	}); err != nil {
		_ = redisClient.Close()
		return errors.Wrap(err, "unable to connect to redis")
	}
	c.redisClient = redisClient
	c.Info(ctx, "connected to redis: %s:%s", c.config.address, c.config.port)
	return nil
}

func (c *redisStore) Close(ctx context.Context) error {
	if c.redisClient == nil {
		return nil
	}
	if err := c.redisClient.Close(); err != nil {
		c.Error(ctx, "error while shutting down redis client: %s", err)
	}
	c.redisClient = nil
	return nil
}

func (c *redisStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.timeout)
}

func (c *redisStore) Clear(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if _, err := c.redisClient.Del(ctx, hashKeyEmployees, setKeyEmployees,
		keyEmployeeSequence).Result(); err != nil {
		return errors.Wrap(err, "error while clearing employees")
	}
	return nil
}

// hashGetter is implemented by both the client and a watched transaction
type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

func (c *redisStore) read(ctx context.Context, cmd hashGetter, id string) (*data.Employee, error) {
	value, err := cmd.HGet(ctx, hashKeyEmployees, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, data.ErrEmployeeNotFound
		}
		return nil, errors.Wrapf(err, "error while reading employee %s", id)
	}
	employee := &data.Employee{}
	if err := employee.UnmarshalBinary([]byte(value)); err != nil {
		return nil, errors.Wrapf(err, "error while decoding employee %s", id)
	}
	return employee, nil
}

// list returns the employees whose ids are within [start, stop] of the
// sorted set, use 0 and -1 for all of them
func (c *redisStore) list(ctx context.Context, start, stop int64) ([]*data.Employee, error) {
	ids, err := c.redisClient.ZRange(ctx, setKeyEmployees, start, stop).Result()
	if err != nil {
		return nil, errors.Wrap(err, "error while listing employees")
	}
	if len(ids) <= 0 {
		return nil, nil
	}
	values, err := c.redisClient.HMGet(ctx, hashKeyEmployees, ids...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "error while listing employees")
	}
	employees := make([]*data.Employee, 0, len(values))
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			//deleted between the two calls
			continue
		}
		employee := &data.Employee{}
		if err := employee.UnmarshalBinary([]byte(s)); err != nil {
			return nil, errors.Wrap(err, "error while decoding employee")
		}
		employees = append(employees, employee)
	}
	return employees, nil
}

func (c *redisStore) EmployeeCreate(ctx context.Context, employeeCreate data.EmployeeCreate) (*data.Employee, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	employee := employeeCreate.ToEmployee(internal.GenerateId())
	bytes, err := employee.MarshalBinary()
	if err != nil {
		return nil, err
	}
	//KIM: the sequence can't be read inside MULTI, a failure after INCR only
	// leaves a gap in the scores
	sequence, err := c.redisClient.Incr(ctx, keyEmployeeSequence).Result()
	if err != nil {
		return nil, errors.Wrap(err, "error while creating employee")
	}
	if _, err := c.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKeyEmployees, employee.Id, string(bytes))
		pipe.ZAdd(ctx, setKeyEmployees, redis.Z{
			Score:  float64(sequence),
			Member: employee.Id,
		})
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "error while creating employee")
	}
	return employee, nil
}

func (c *redisStore) EmployeeRead(ctx context.Context, id string) (*data.Employee, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.read(ctx, c.redisClient, id)
}

func (c *redisStore) EmployeesSearch(ctx context.Context, filter data.EmployeeFilter, skip, limit int) ([]*data.Employee, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if filter == (data.EmployeeFilter{}) {
		stop := int64(-1)
		if limit > 0 {
			stop = int64(skip + limit - 1)
		}
		return c.list(ctx, int64(skip), stop)
	}
	employees, err := c.list(ctx, 0, -1)
	if err != nil {
		return nil, err
	}
	return paginate(employees, filter, skip, limit), nil
}

func (c *redisStore) EmployeesCount(ctx context.Context, filter data.EmployeeFilter) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if filter == (data.EmployeeFilter{}) {
		total, err := c.redisClient.ZCard(ctx, setKeyEmployees).Result()
		if err != nil {
			return 0, errors.Wrap(err, "error while counting employees")
		}
		return total, nil
	}
	employees, err := c.list(ctx, 0, -1)
	if err != nil {
		return 0, err
	}
	return count(employees, filter), nil
}

// EmployeeUpdate watches the employees hash, if it changes before the
// write the write is discarded and the read retried
func (c *redisStore) EmployeeUpdate(ctx context.Context, id string, employeeUpdate data.EmployeeUpdate) (*data.Employee, error) {
	var employee *data.Employee

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	updateFx := func(tx *redis.Tx) error {
		var err error

		if employee, err = c.read(ctx, tx, id); err != nil {
			return err
		}
		employeeUpdate.Apply(employee)
		bytes, err := employee.MarshalBinary()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hashKeyEmployees, id, string(bytes))
			return nil
		})
		return err
	}
	for i := 0; i < maxTxAttempts; i++ {
		err := c.redisClient.Watch(ctx, updateFx, hashKeyEmployees)
		switch {
		case err == nil:
			return employee, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, data.ErrEmployeeNotFound):
			return nil, err
		default:
			return nil, errors.Wrapf(err, "error while updating employee %s", id)
		}
	}
	return nil, errors.Errorf("error while updating employee %s: too many conflicts", id)
}

func (c *redisStore) EmployeeDelete(ctx context.Context, id string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if _, err := c.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, hashKeyEmployees, id)
		pipe.ZRem(ctx, setKeyEmployees, id)
		return nil
	}); err != nil {
		return errors.Wrapf(err, "error while deleting employee %s", id)
	}
	return nil
}
