package domain

import (
	"fmt"
	"strings"
	"time"
)

// EventFields are the attributes of a workshop, webinar or community event.
type EventFields struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Capacity    int       `json:"capacity"` // 0 means unlimited
	Registered  int       `json:"registered"`
}

// Validate checks field-level invariants of an event.
func (f EventFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(f.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if f.StartsAt.IsZero() {
		return fmt.Errorf("start time is required")
	}
	if !f.EndsAt.IsZero() && f.EndsAt.Before(f.StartsAt) {
		return fmt.Errorf("end time must not be before start time")
	}
	if f.Capacity < 0 || f.Registered < 0 {
		return fmt.Errorf("capacity and registered must not be negative")
	}
	return nil
}

// SeatsLeft returns the remaining seats, or -1 when capacity is unlimited.
func (f EventFields) SeatsLeft() int {
	if f.Capacity == 0 {
		return -1
	}
	if f.Registered >= f.Capacity {
		return 0
	}
	return f.Capacity - f.Registered
}

// EventPatch is a partial update of an event.
type EventPatch struct {
	Status      *Status
	Title       *string
	Description *string
	Category    *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Capacity    *int
	Registered  *int
}

func (p EventPatch) StatusChange() (Status, bool) {
	if p.Status == nil {
		return "", false
	}
	return *p.Status, true
}

func (p EventPatch) ApplyFields(f *EventFields) {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Location != nil {
		f.Location = *p.Location
	}
	if p.StartsAt != nil {
		f.StartsAt = *p.StartsAt
	}
	if p.EndsAt != nil {
		f.EndsAt = *p.EndsAt
	}
	if p.Capacity != nil {
		f.Capacity = *p.Capacity
	}
	if p.Registered != nil {
		f.Registered = *p.Registered
	}
}

// EventDescriptor wires events into the generic query layer. Events carry no amount.
var EventDescriptor = Descriptor[EventFields]{
	Kind:     KindEvents,
	Category: func(f EventFields) string { return f.Category },
	Date:     func(f EventFields) time.Time { return f.StartsAt },
	Text: []func(EventFields) string{
		func(f EventFields) string { return f.Title },
		func(f EventFields) string { return f.Description },
		func(f EventFields) string { return f.Location },
	},
}
