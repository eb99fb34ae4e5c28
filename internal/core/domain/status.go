package domain

import "slices"

// Status is an enumerated lifecycle tag. The allowed values depend on the record kind.
type Status string

// StatusSet is the fixed enumeration of statuses for one record kind.
type StatusSet []Status

// Contains reports whether s is a member of the set.
func (ss StatusSet) Contains(s Status) bool {
	return slices.Contains(ss, s)
}

// Strings returns the set as plain strings, in declaration order.
func (ss StatusSet) Strings() []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

// Transitions is an allow-list of status moves keyed by the current status.
//
// A nil Transitions allows every move. A current status with no entry is
// unrestricted, so records carrying legacy statuses can always move on.
// Staying on the same status is always allowed.
type Transitions map[Status][]Status

// Allows reports whether a record may move from one status to another.
func (t Transitions) Allows(from, to Status) bool {
	if t == nil || from == to {
		return true
	}
	next, ok := t[from]
	if !ok {
		return true
	}
	return slices.Contains(next, to)
}

// Expense statuses.
const (
	ExpensePlanned  Status = "planned"
	ExpensePending  Status = "pending"
	ExpenseApproved Status = "approved"
	ExpensePaid     Status = "paid"
)

// Project statuses.
const (
	ProjectPlanning  Status = "planning"
	ProjectActive    Status = "active"
	ProjectOnHold    Status = "on-hold"
	ProjectCompleted Status = "completed"
)

// Event statuses.
const (
	EventUpcoming  Status = "upcoming"
	EventOngoing   Status = "ongoing"
	EventCompleted Status = "completed"
	EventCancelled Status = "cancelled"
)

// Task statuses.
const (
	TaskTodo       Status = "todo"
	TaskInProgress Status = "in-progress"
	TaskBlocked    Status = "blocked"
	TaskDone       Status = "done"
)
