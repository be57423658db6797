package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Unassigned is the group key used for tasks without an assignee.
const Unassigned = "unassigned"

// ID identifies a task, team or employee.
// The backend emits numeric ids, but every comparison happens on the string form,
// so ID unmarshals from either a JSON number or a JSON string.
type ID string

// UnmarshalJSON accepts `5` as well as `"5"`.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as a string.
func (id ID) String() string {
	return string(id)
}

// Int returns the numeric value of the identifier, if it has one.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(string(id)), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Task is a time-boxed unit of field work.
// Tasks are owned by the backend and treated as immutable values once fetched.
type Task struct {
	ID     ID         `json:"id"`
	Start  Instant    `json:"start"`
	End    Instant    `json:"end,omitempty"`
	Type   string     `json:"type"`
	Status TaskStatus `json:"status"`

	// Assignee is a team or employee id. Nil means "unassigned".
	Assignee *ID `json:"assignee,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

// GroupKey returns the assignee id, or Unassigned when there is none.
func (t Task) GroupKey() string {
	if t.Assignee == nil || *t.Assignee == "" {
		return Unassigned
	}
	return t.Assignee.String()
}

// EndOrStart returns End, falling back to Start when End is empty.
func (t Task) EndOrStart() Instant {
	if strings.TrimSpace(string(t.End)) == "" {
		return t.Start
	}
	return t.End
}

// StartTime parses the start instant in loc.
func (t Task) StartTime(loc *time.Location) (time.Time, error) {
	return t.Start.Parse(loc)
}

// Team is a crew that tasks can be assigned to.
type Team struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Employee is a single worker that tasks can be assigned to.
type Employee struct {
	ID        ID      `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone,omitempty"`
}

// FullName returns "First Last", trimmed.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// EmployeeList is the wrapped shape employee sources return.
// Teams come back as a bare slice; employees do not. The two shapes are kept apart on purpose.
type EmployeeList struct {
	Employees []Employee `json:"employees"`
}

// Items returns the employees, or nil for a nil list.
func (l *EmployeeList) Items() []Employee {
	if l == nil {
		return nil
	}
	return l.Employees
}
