package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/antonio-alexander/go-employees/internal"
	"github.com/antonio-alexander/go-employees/internal/client"
	"github.com/antonio-alexander/go-employees/internal/data"
	"github.com/antonio-alexander/go-employees/internal/utilities"

	"github.com/pkg/errors"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

func main() {
	args := os.Args[1:]
	envs, err := internal.LoadEnvs()
	if err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
}

func printJson(item any) error {
	bytes, err := json.MarshalIndent(item, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(bytes))
	return nil
}

// readPayload unmarshals the json found in EMPLOYEE into v
func readPayload(envs map[string]string, v any) error {
	payload := envs["EMPLOYEE"]
	if payload == "" {
		return errors.New("EMPLOYEE is required for this command")
	}
	return errors.Wrap(json.Unmarshal([]byte(payload), v), "unable to parse EMPLOYEE")
}

func Main(args []string, envs map[string]string, osSignal chan (os.Signal)) error {
	fmt.Printf("client: go-employees v%s (%s) built from: %s\n",
		Version, GitCommit, GitBranch)

	//create logger
	logger := utilities.NewLogger(os.Stderr)
	_ = logger.Configure(envs)

	//create client
	client := client.NewClient(logger)
	if err := client.Configure(envs); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
		case <-osSignal:
			cancel()
		}
	}()
	ctx = internal.CtxWithCorrelationId(ctx, envs["CORRELATION_ID"])
	if err := client.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			fmt.Printf("error while closing client: %s\n", err)
		}
	}()

	// execute command
	command, id := envs["COMMAND"], envs["EMPLOYEE_ID"]
	switch command {
	default:
		return errors.Errorf("unsupported command: %s", command)
	case "employees_list":
		response, err := client.EmployeesList(ctx, data.EmployeeSearch{
			Page:   envs["SEARCH_PAGE"],
			Limit:  envs["SEARCH_LIMIT"],
			Name:   envs["SEARCH_NAME"],
			Email:  envs["SEARCH_EMAIL"],
			Status: envs["SEARCH_STATUS"],
		})
		if err != nil {
			return err
		}
		return printJson(response)
	case "employee_read":
		employee, err := client.EmployeeRead(ctx, id)
		if err != nil {
			return err
		}
		return printJson(&data.EmployeeResponse{Employee: employee})
	case "employee_create":
		var employeeCreate data.EmployeeCreate

		if err := readPayload(envs, &employeeCreate); err != nil {
			return err
		}
		employee, err := client.EmployeeCreate(ctx, employeeCreate)
		if err != nil {
			return err
		}
		return printJson(employee)
	case "employee_update":
		var employeeUpdate data.EmployeeUpdate

		if err := readPayload(envs, &employeeUpdate); err != nil {
			return err
		}
		employee, err := client.EmployeeUpdate(ctx, id, employeeUpdate)
		if err != nil {
			return err
		}
		return printJson(employee)
	case "employee_delete":
		if err := client.EmployeeDelete(ctx, id); err != nil {
			return err
		}
		fmt.Println(data.MessageEmployeeDeleted)
	case "timers_read":
		timers, err := client.TimersRead(ctx)
		if err != nil {
			return err
		}
		return printJson(timers)
	case "counters_read":
		counters, err := client.CountersRead(ctx)
		if err != nil {
			return err
		}
		return printJson(counters)
	}
	return nil
}
