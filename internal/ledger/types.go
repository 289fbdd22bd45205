package ledger

import (
	"time"

	"github.com/roach88/testis/internal/energy"
)

// Run is one recorded check.
type Run struct {
	Seq             int64     `json:"seq"`
	ID              string    `json:"id"`
	Case            string    `json:"case"`
	Dir             string    `json:"dir"`
	Pass            bool      `json:"pass"`
	Kind            string    `json:"kind,omitempty"`
	Message         string    `json:"message,omitempty"`
	Accuracy        float64   `json:"accuracy"`
	OutputDigest    string    `json:"output_digest,omitempty"`
	ReferenceDigest string    `json:"reference_digest,omitempty"`
	ActualDigest    string    `json:"actual_digest,omitempty"`
	MaxDeviation    *float64  `json:"max_deviation,omitempty"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// Delta is one compared energy of a recorded run.
type Delta struct {
	RunID     string        `json:"run_id"`
	Key       string        `json:"key"`
	Reference *float64      `json:"reference,omitempty"`
	Actual    *float64      `json:"actual,omitempty"`
	Deviation *float64      `json:"deviation,omitempty"`
	Status    energy.Status `json:"status"`
}
