package entities

import "time"

// StepStatus represents the outcome of a single workflow step.
type StepStatus string

const (
	StepStatusOK      StepStatus = "ok"
	StepStatusFailed  StepStatus = "failed"
	StepStatusSkipped StepStatus = "skipped"
)

// StepResult records the outcome of one step of the run.
type StepResult struct {
	Name      string     `json:"name"`
	Status    StepStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	Duration  string     `json:"duration"`
}
