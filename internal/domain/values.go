package domain

import "strings"

// TaskStatus is the lifecycle state of a task.
// The set is extensible; unknown values are carried through untouched.
type TaskStatus string

const (
	TaskStatusPlanned TaskStatus = "zaplanowane"
	TaskStatusDone    TaskStatus = "wykonane"
	TaskStatusNotDone TaskStatus = "niewykonane"
)

// KnownStatuses lists the statuses offered by default in status pickers.
var KnownStatuses = []TaskStatus{TaskStatusPlanned, TaskStatusDone, TaskStatusNotDone}

// Conventional task type tags. The type set is open: users append their own tags at runtime.
const (
	TaskTypeInspection   = "przegląd"
	TaskTypeInstallation = "montaż"
	TaskTypeTraining     = "szkolenie"
)

// CrewTypes are types worked by a team.
var CrewTypes = []string{TaskTypeInspection, TaskTypeInstallation}

// EmployeeTypes are types worked by a single employee.
var EmployeeTypes = []string{TaskTypeTraining}

// NormalizeType lower-cases and trims a user supplied type tag.
func NormalizeType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewTaskStatus normalizes a status value. Any non-empty value is accepted.
func NewTaskStatus(s string) (TaskStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", ErrInvalidTaskStatus
	}
	return TaskStatus(s), nil
}
