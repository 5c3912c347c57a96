package utilities

import (
	"sync"

	"github.com/antonio-alexander/go-employees/internal/data"
)

type counter struct {
	success int
	failure int
}

type outcomeCounter struct {
	sync.RWMutex
	counters map[string]*counter
}

// Counter tallies how many times each operation succeeded or failed
type Counter interface {
	Read(key string) (successCount, failureCount int)
	ReadAll() *data.Counters
	IncrementSuccess(key string) (successCount int)
	IncrementFailure(key string) (failureCount int)
	Reset()
}

func NewCounter() Counter {
	return &outcomeCounter{
		counters: make(map[string]*counter),
	}
}

func (c *outcomeCounter) Read(key string) (int, int) {
	c.RLock()
	defer c.RUnlock()

	if counter, found := c.counters[key]; found {
		return counter.success, counter.failure
	}
	return 0, 0
}

func (c *outcomeCounter) ReadAll() *data.Counters {
	c.RLock()
	defer c.RUnlock()

	successes := make(map[string]int)
	failures := make(map[string]int)
	for key, value := range c.counters {
		successes[key] = value.success
		failures[key] = value.failure
	}
	return &data.Counters{
		Successes: successes,
		Failures:  failures,
	}
}

func (c *outcomeCounter) Reset() {
	c.Lock()
	defer c.Unlock()

	c.counters = make(map[string]*counter)
}

func (c *outcomeCounter) get(key string) *counter {
	cntr, found := c.counters[key]
	if !found {
		cntr = &counter{}
		c.counters[key] = cntr
	}
	return cntr
}

func (c *outcomeCounter) IncrementSuccess(key string) int {
	c.Lock()
	defer c.Unlock()

	cntr := c.get(key)
	cntr.success++
	return cntr.success
}

func (c *outcomeCounter) IncrementFailure(key string) int {
	c.Lock()
	defer c.Unlock()

	cntr := c.get(key)
	cntr.failure++
	return cntr.failure
}
