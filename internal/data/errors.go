package data

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MessageEmployeeNotFound string = "Employee not found"
	MessageServerError      string = "Server error"
)

var ErrEmployeeNotFound = errors.New(MessageEmployeeNotFound)

const IssueCodeInvalidJson string = "invalid_json"

// Issue is a single schema violation, path is the list of json field
// names leading to the offending value
type Issue struct {
	Code    string   `json:"code"`
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

type ValidationError struct {
	Issues []Issue
}

func (v *ValidationError) Error() string {
	messages := make([]string, 0, len(v.Issues))
	for _, issue := range v.Issues {
		messages = append(messages, fmt.Sprintf("%s: %s",
			strings.Join(issue.Path, "."), issue.Message))
	}
	return "validation failed: " + strings.Join(messages, "; ")
}
