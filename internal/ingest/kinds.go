package ingest

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
)

type expenseRow struct {
	Description string `csv:"description" validate:"required,max=200"`
	Amount      string `csv:"amount" validate:"required"`
	Category    string `csv:"category" validate:"required"`
	Date        string `csv:"date" validate:"required"`
	ProjectID   string `csv:"project_id" validate:"omitempty,max=64"`
	Notes       string `csv:"notes" validate:"max=1000"`
}

type projectRow struct {
	Name        string `csv:"name" validate:"required,max=200"`
	Description string `csv:"description" validate:"max=2000"`
	Category    string `csv:"category" validate:"required"`
	Location    string `csv:"location" validate:"max=200"`
	Budget      string `csv:"budget" validate:"required"`
	Funding     string `csv:"funding"`
	StartDate   string `csv:"start_date" validate:"required"`
	EndDate     string `csv:"end_date"`
}

type eventRow struct {
	Title       string `csv:"title" validate:"required,max=200"`
	Description string `csv:"description" validate:"max=2000"`
	Category    string `csv:"category" validate:"required"`
	Location    string `csv:"location" validate:"max=200"`
	Date        string `csv:"date" validate:"required"`
	StartTime   string `csv:"start_time"`
	EndTime     string `csv:"end_time"`
	Capacity    string `csv:"capacity"`
	Registered  string `csv:"registered"`
}

type taskRow struct {
	Title       string `csv:"title" validate:"required,max=200"`
	Description string `csv:"description" validate:"max=2000"`
	Priority    string `csv:"priority" validate:"required"`
	Assignee    string `csv:"assignee" validate:"max=100"`
	ProjectID   string `csv:"project_id" validate:"omitempty,max=64"`
	DueDate     string `csv:"due_date"`
}

// Expenses parses an expense export with columns
// description, amount, category, date and optionally status, project_id, notes.
func Expenses(r io.Reader, kc domain.KindCatalog) ([]Result[domain.ExpenseFields], error) {
	return read(r, kc, []string{"description", "amount", "category", "date"}, parseExpense)
}

// Projects parses a project export with columns
// name, category, budget, start_date and optionally status, description, location, funding, end_date.
func Projects(r io.Reader, kc domain.KindCatalog) ([]Result[domain.ProjectFields], error) {
	return read(r, kc, []string{"name", "category", "budget", "start_date"}, parseProject)
}

// Events parses an event export with columns
// title, category, date and optionally status, description, location, start_time, end_time, capacity, registered.
func Events(r io.Reader, kc domain.KindCatalog) ([]Result[domain.EventFields], error) {
	return read(r, kc, []string{"title", "category", "date"}, parseEvent)
}

// Tasks parses a task export with columns
// title, priority and optionally status, description, assignee, project_id, due_date.
func Tasks(r io.Reader, kc domain.KindCatalog) ([]Result[domain.TaskFields], error) {
	return read(r, kc, []string{"title", "priority"}, parseTask)
}

func parseExpense(c columns, kc domain.KindCatalog) (Row[domain.ExpenseFields], *ParseError) {
	var out Row[domain.ExpenseFields]
	raw := expenseRow{
		Description: c["description"],
		Amount:      c["amount"],
		Category:    c["category"],
		Date:        c["date"],
		ProjectID:   c["project_id"],
		Notes:       c["notes"],
	}
	if perr := checkStruct(raw); perr != nil {
		return out, perr
	}
	amount, ok := ParseMoney(raw.Amount)
	if !ok {
		return out, &ParseError{Field: "amount", Value: raw.Amount, Reason: "not a money amount"}
	}
	date, ok := ParseDate(raw.Date)
	if !ok {
		return out, &ParseError{Field: "date", Value: raw.Date, Reason: "expected YYYY-MM-DD"}
	}
	category, perr := parseCategory("category", raw.Category, kc)
	if perr != nil {
		return out, perr
	}
	status, perr := parseStatus(c["status"], kc)
	if perr != nil {
		return out, perr
	}
	out.Status = status
	out.Fields = domain.ExpenseFields{
		Description: raw.Description,
		Amount:      amount,
		Category:    category,
		Date:        date,
		ProjectID:   raw.ProjectID,
		Notes:       raw.Notes,
	}
	return out, fieldsValid(out.Fields.Validate())
}

func parseProject(c columns, kc domain.KindCatalog) (Row[domain.ProjectFields], *ParseError) {
	var out Row[domain.ProjectFields]
	raw := projectRow{
		Name:        c["name"],
		Description: c["description"],
		Category:    c["category"],
		Location:    c["location"],
		Budget:      c["budget"],
		Funding:     c["funding"],
		StartDate:   c["start_date"],
		EndDate:     c["end_date"],
	}
	if perr := checkStruct(raw); perr != nil {
		return out, perr
	}
	budget, ok := ParseMoney(raw.Budget)
	if !ok {
		return out, &ParseError{Field: "budget", Value: raw.Budget, Reason: "not a money amount"}
	}
	funding := decimal.Zero
	if raw.Funding != "" {
		if funding, ok = ParseMoney(raw.Funding); !ok {
			return out, &ParseError{Field: "funding", Value: raw.Funding, Reason: "not a money amount"}
		}
	}
	start, ok := ParseDate(raw.StartDate)
	if !ok {
		return out, &ParseError{Field: "start_date", Value: raw.StartDate, Reason: "expected YYYY-MM-DD"}
	}
	var end *time.Time
	if raw.EndDate != "" {
		d, ok := ParseDate(raw.EndDate)
		if !ok {
			return out, &ParseError{Field: "end_date", Value: raw.EndDate, Reason: "expected YYYY-MM-DD"}
		}
		end = &d
	}
	category, perr := parseCategory("category", raw.Category, kc)
	if perr != nil {
		return out, perr
	}
	status, perr := parseStatus(c["status"], kc)
	if perr != nil {
		return out, perr
	}
	out.Status = status
	out.Fields = domain.ProjectFields{
		Name:        raw.Name,
		Description: raw.Description,
		Category:    category,
		Location:    raw.Location,
		Budget:      budget,
		Funding:     funding,
		StartDate:   start,
		EndDate:     end,
	}
	return out, fieldsValid(out.Fields.Validate())
}

func parseEvent(c columns, kc domain.KindCatalog) (Row[domain.EventFields], *ParseError) {
	var out Row[domain.EventFields]
	raw := eventRow{
		Title:       c["title"],
		Description: c["description"],
		Category:    c["category"],
		Location:    c["location"],
		Date:        c["date"],
		StartTime:   c["start_time"],
		EndTime:     c["end_time"],
		Capacity:    c["capacity"],
		Registered:  c["registered"],
	}
	if perr := checkStruct(raw); perr != nil {
		return out, perr
	}
	day, ok := ParseDate(raw.Date)
	if !ok {
		return out, &ParseError{Field: "date", Value: raw.Date, Reason: "expected YYYY-MM-DD"}
	}
	starts := day
	if raw.StartTime != "" {
		if starts, ok = ParseClock(day, raw.StartTime); !ok {
			return out, &ParseError{Field: "start_time", Value: raw.StartTime, Reason: "expected HH:MM or H:MM AM/PM"}
		}
	}
	var ends time.Time
	if raw.EndTime != "" {
		if ends, ok = ParseClock(day, raw.EndTime); !ok {
			return out, &ParseError{Field: "end_time", Value: raw.EndTime, Reason: "expected HH:MM or H:MM AM/PM"}
		}
	}
	capacity, registered := 0, 0
	if raw.Capacity != "" {
		if capacity, ok = ParseCount(raw.Capacity); !ok {
			return out, &ParseError{Field: "capacity", Value: raw.Capacity, Reason: "expected a whole number"}
		}
	}
	if raw.Registered != "" {
		if registered, ok = ParseCount(raw.Registered); !ok {
			return out, &ParseError{Field: "registered", Value: raw.Registered, Reason: "expected a whole number"}
		}
	}
	category, perr := parseCategory("category", raw.Category, kc)
	if perr != nil {
		return out, perr
	}
	status, perr := parseStatus(c["status"], kc)
	if perr != nil {
		return out, perr
	}
	out.Status = status
	out.Fields = domain.EventFields{
		Title:       raw.Title,
		Description: raw.Description,
		Category:    category,
		Location:    raw.Location,
		StartsAt:    starts,
		EndsAt:      ends,
		Capacity:    capacity,
		Registered:  registered,
	}
	return out, fieldsValid(out.Fields.Validate())
}

func parseTask(c columns, kc domain.KindCatalog) (Row[domain.TaskFields], *ParseError) {
	var out Row[domain.TaskFields]
	raw := taskRow{
		Title:       c["title"],
		Description: c["description"],
		Priority:    c["priority"],
		Assignee:    c["assignee"],
		ProjectID:   c["project_id"],
		DueDate:     c["due_date"],
	}
	if perr := checkStruct(raw); perr != nil {
		return out, perr
	}
	var due *time.Time
	if raw.DueDate != "" {
		d, ok := ParseDate(raw.DueDate)
		if !ok {
			return out, &ParseError{Field: "due_date", Value: raw.DueDate, Reason: "expected YYYY-MM-DD"}
		}
		due = &d
	}
	priority, perr := parseCategory("priority", raw.Priority, kc)
	if perr != nil {
		return out, perr
	}
	status, perr := parseStatus(c["status"], kc)
	if perr != nil {
		return out, perr
	}
	out.Status = status
	out.Fields = domain.TaskFields{
		Title:       raw.Title,
		Description: raw.Description,
		Priority:    priority,
		Assignee:    raw.Assignee,
		ProjectID:   raw.ProjectID,
		DueDate:     due,
	}
	return out, fieldsValid(out.Fields.Validate())
}

func fieldsValid(err error) *ParseError {
	if err == nil {
		return nil
	}
	return &ParseError{Reason: err.Error()}
}
