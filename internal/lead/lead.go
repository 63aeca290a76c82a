// Package lead defines the qualified-lead record and its field validators.
package lead

import (
	"time"

	"github.com/google/uuid"

	"github.com/jenli/leadbot/internal/i18n"
)

// Event kinds carried by a Record.
const (
	EventLead    = "lead"
	EventHandoff = "handoff"
)

// Record is an immutable snapshot of a finished (or handed-off) intake.
// Optional answers are pointers so absent values stay out of the JSON
// payload delivered to outbound sinks.
type Record struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Event      string    `json:"event" db:"event"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Username   *string   `json:"username,omitempty" db:"username"`
	Name       string    `json:"name" db:"name"`
	Service    string    `json:"service" db:"service"`
	Platform   *string   `json:"platform,omitempty" db:"platform"`
	Goal       string    `json:"goal" db:"goal"`
	Budget     *string   `json:"budget,omitempty" db:"budget"`
	StoreLinks string    `json:"store_links" db:"store_links"`
	Email      *string   `json:"email,omitempty" db:"email"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	Lang       i18n.Lang `json:"lang" db:"lang"`
	Source     *string   `json:"source,omitempty" db:"source"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// New returns a Record with a fresh id and timestamp.
func New(event string) Record {
	return Record{
		ID:        uuid.New(),
		Event:     event,
		CreatedAt: time.Now().UTC(),
	}
}
