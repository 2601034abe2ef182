// Package events carries registration lifecycle notifications to an external
// sink without blocking the request that caused them.
package events

import (
	"encoding/json"
	"time"
)

// Type names a lifecycle change.
type Type string

const (
	TypeAccepted Type = "registration.accepted"
	TypeDeleted  Type = "registration.deleted"
	TypeCleared  Type = "registrations.cleared"
)

func (t Type) String() string { return string(t) }

// Event is one lifecycle notification. Keep it transport-agnostic so every
// sink can encode it the same way.
type Event struct {
	Type           Type      `json:"type"`
	Scheme         string    `json:"scheme"`
	RegistrationID string    `json:"registrationId,omitempty"`
	Count          int       `json:"count,omitempty"`
	At             time.Time `json:"at"`
	RequestID      string    `json:"requestId,omitempty"`
}

// Key is the partition key sinks use: events of one scheme stay ordered.
func (e Event) Key() string { return e.Scheme }

// Encode returns the JSON wire form.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}
