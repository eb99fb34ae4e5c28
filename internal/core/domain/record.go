package domain

// Record is one entity of a kind: identity, lifecycle status and audit
// timestamps around a kind-specific field set.
type Record[F any] struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
	Fields F      `json:"fields"`
	AuditFields
}

// Patch is a partial update of a record. Fields not carried by the patch stay untouched.
type Patch[F any] interface {
	// StatusChange reports the requested status, if the patch carries one.
	StatusChange() (Status, bool)
	// ApplyFields merges the carried fields into f.
	ApplyFields(f *F)
}

// StatusPatch changes only the status of a record.
type StatusPatch[F any] struct {
	Status Status
}

func (p StatusPatch[F]) StatusChange() (Status, bool) { return p.Status, true }

func (p StatusPatch[F]) ApplyFields(*F) {}

// Aliases for the concrete record kinds.
type (
	Expense = Record[ExpenseFields]
	Project = Record[ProjectFields]
	Event   = Record[EventFields]
	Task    = Record[TaskFields]
)
