package server

import (
	"time"

	"github.com/graphmining/leiden-engine/pkg/leiden"
)

// JobStatus tracks a clustering job through its lifecycle.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusFailed    JobStatus = "failed"
)

// JobRequest is the POST /jobs payload. Absent resolution, randomness and
// max levels fall back to the engine defaults; an explicit value is always
// honored, including randomness 0 for deterministic refinement.
type JobRequest struct {
	NumNodes   int           `json:"num_nodes"`
	Edges      []leiden.Edge `json:"edges"`
	Resolution *float64      `json:"resolution,omitempty"`
	Randomness *float64      `json:"randomness,omitempty"`
	MaxLevels  *int          `json:"max_levels,omitempty"`
	Seed       int64         `json:"seed,omitempty"`
	Strict     bool          `json:"strict_edges,omitempty"`
}

// Job is the externally visible job record.
type Job struct {
	ID        string         `json:"id"`
	Status    JobStatus      `json:"status"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Result    *leiden.Result `json:"result,omitempty"`
}

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
