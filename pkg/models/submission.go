package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission is one archived batch of entries, written when a submit-all
// succeeds. The archive is append-only.
type Submission struct {
	ID             uuid.UUID      `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	Identification Identification `json:"identification,omitempty"`
	Entries        []*Entry       `json:"entries"`
	TotalEmissions float64        `json:"totalEmissions"`
	EntryCount     int            `json:"entryCount"`
}
