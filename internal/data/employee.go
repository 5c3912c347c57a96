package data

import "encoding/json"

const (
	StatusActive   string = "active"
	StatusInactive string = "inactive"
	StatusOnLeave  string = "on_leave"
)

type Employee struct {
	Id      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	PhoneNo string `json:"phone_no"`
	Team    string `json:"team"`
	Status  string `json:"status"` //this is an enum, see the Status constants
}

func (e *Employee) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Employee) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}

// EmployeeCreate is the payload used to create an employee, all fields
// are required
type EmployeeCreate struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	PhoneNo string `json:"phone_no" validate:"required"`
	Team    string `json:"team" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=active inactive on_leave"`
}

// EmployeeUpdate contains the only mutable fields of an employee; every
// field is written on update, even when it's empty
type EmployeeUpdate struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	PhoneNo string `json:"phone_no"`
	Team    string `json:"team"`
}

func (e EmployeeCreate) ToEmployee(id string) *Employee {
	return &Employee{
		Id:      id,
		Name:    e.Name,
		Email:   e.Email,
		PhoneNo: e.PhoneNo,
		Team:    e.Team,
		Status:  e.Status,
	}
}

func (e EmployeeUpdate) Apply(employee *Employee) {
	employee.Name = e.Name
	employee.Email = e.Email
	employee.PhoneNo = e.PhoneNo
	employee.Team = e.Team
}
