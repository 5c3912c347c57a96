package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func GenerateId() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// LaunchContext returns a context that's cancelled once a signal is
// received on osSignal (or the returned cancel is called)
func LaunchContext(wg *sync.WaitGroup, osSignal chan os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()

		select {
		case <-ctx.Done():
		case <-osSignal:
		}
	}()
	return ctx, cancel
}

// DoRequest executes a request and returns the status code along with
// the body; when v is provided and the status is 200, the body is
// unmarshalled into v[0]
func DoRequest(client *http.Client, uri, method string, input interface{}, v ...interface{}) (int, []byte, error) {
	var body io.Reader

	switch i := input.(type) {
	case nil:
	case url.Values:
		uri += "?" + i.Encode()
	case []byte:
		body = bytes.NewBuffer(i)
	default:
		byts, err := json.Marshal(input)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewBuffer(byts)
	}
	request, err := http.NewRequest(method, uri, body)
	if err != nil {
		return 0, nil, err
	}
	response, err := client.Do(request)
	if err != nil {
		return 0, nil, err
	}
	defer response.Body.Close()
	byts, err := io.ReadAll(response.Body)
	if err != nil {
		return response.StatusCode, nil, err
	}
	switch response.StatusCode {
	default:
		if len(byts) > 0 {
			return response.StatusCode, byts, errors.Errorf("%s: %s", response.Status, string(byts))
		}
		return response.StatusCode, byts, errors.Errorf("%s", response.Status)
	case http.StatusOK:
		if len(v) > 0 {
			return response.StatusCode, byts, json.Unmarshal(byts, v[0])
		}
		return response.StatusCode, byts, nil
	}
}
