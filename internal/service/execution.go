package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/antonio-alexander/go-employees/internal/data"

	"github.com/pkg/errors"
)

func getCorrelationId(request *http.Request) string {
	return request.Header.Get(data.HeaderCorrelationId)
}

func idFromPath(pathVariables map[string]string) string {
	return pathVariables[data.PathId]
}

// readJson unmarshals the request body into v, an empty body is read as
// an empty object and a body that isn't valid json is reported as a
// validation error
func readJson(request *http.Request, v interface{}) error {
	bytes, err := io.ReadAll(request.Body)
	defer request.Body.Close()
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(bytes))) == 0 {
		bytes = []byte("{}")
	}
	if err := json.Unmarshal(bytes, v); err != nil {
		return &data.ValidationError{Issues: []data.Issue{{
			Code:    data.IssueCodeInvalidJson,
			Path:    []string{},
			Message: err.Error(),
		}}}
	}
	return nil
}

// errorResponse maps an error to its status code and body; errors that
// aren't known to the api are never echoed back
func errorResponse(err error) (int, interface{}) {
	var validationError *data.ValidationError

	switch {
	default:
		return http.StatusInternalServerError, &data.ErrorResponse{Error: data.MessageServerError}
	case errors.As(err, &validationError):
		return http.StatusBadRequest, validationError.Issues
	case errors.Is(err, data.ErrEmployeeNotFound):
		return http.StatusNotFound, &data.ErrorResponse{Error: data.MessageEmployeeNotFound}
	}
}

func handleResponse(writer http.ResponseWriter, err error, items ...interface{}) {
	var bytes []byte

	statusCode := http.StatusOK
	if err != nil {
		var item interface{}

		statusCode, item = errorResponse(err)
		items = []interface{}{item}
	}
	if len(items) <= 0 {
		writer.WriteHeader(http.StatusNoContent)
		return
	}
	bytes, err = json.Marshal(items[0])
	if err != nil {
		statusCode = http.StatusInternalServerError
		bytes = []byte(`{"error":"` + data.MessageServerError + `"}`)
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	if _, err := writer.Write(bytes); err != nil {
		fmt.Printf("error handling response: %s\n", err)
	}
}
