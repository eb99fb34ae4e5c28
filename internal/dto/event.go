package dto

import (
	"time"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
)

// CreateEventRequest defines the data needed to create a new event.
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	Category    string     `json:"category" binding:"required"`
	Location    string     `json:"location" binding:"max=200"`
	StartsAt    *time.Time `json:"startsAt" binding:"required"`
	EndsAt      *time.Time `json:"endsAt"`
	Capacity    int        `json:"capacity" binding:"min=0"`
	Registered  int        `json:"registered" binding:"min=0"`
	Status      string     `json:"status"`
}

// UpdateEventRequest defines the data allowed for updating an event.
type UpdateEventRequest struct {
	Status      *string    `json:"status"`
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Category    *string    `json:"category"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=0"`
	Registered  *int       `json:"registered" binding:"omitempty,min=0"`
}

// EventResponse defines the data returned for an event.
type EventResponse = RecordResponse[domain.EventFields]

// EventSummary is the calendar view over a filtered set of events.
type EventSummary struct {
	Count      int             `json:"count"`
	Upcoming   []EventResponse `json:"upcoming"` // not yet started, soonest first
	SeatsLeft  int             `json:"seatsLeft"` // over upcoming events with a capacity
	ByCategory []GroupResponse `json:"byCategory"`
	ByStatus   []GroupResponse `json:"byStatus"`
}
