package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind names a record kind. It doubles as the persistence slot key.
type Kind string

const (
	KindExpenses Kind = "expenses"
	KindProjects Kind = "projects"
	KindEvents   Kind = "events"
	KindTasks    Kind = "tasks"
)

// Kinds lists every record kind in a stable order.
var Kinds = []Kind{KindExpenses, KindProjects, KindEvents, KindTasks}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindExpenses, KindProjects, KindEvents, KindTasks:
		return true
	}
	return false
}

// Descriptor exposes the kind-specific accessors that generic filtering and
// aggregation need. Amount is nil for kinds without a numeric amount.
type Descriptor[F any] struct {
	Kind     Kind
	Category func(F) string
	Date     func(F) time.Time
	Amount   func(F) decimal.Decimal
	Text     []func(F) string
}
