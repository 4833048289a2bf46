package entities

import "time"

// RunStatus represents the status of a workflow run.
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// RunReport is the diagnostic record of one run. It is written next to
// the screenshots regardless of the run outcome.
type RunReport struct {
	PortalURL   string       `json:"portal_url"`
	Status      RunStatus    `json:"status"`
	Steps       []StepResult `json:"steps"`
	Screenshots []string     `json:"screenshots,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
}

// AddStep appends a step result to the report.
func (r *RunReport) AddStep(step StepResult) {
	r.Steps = append(r.Steps, step)
}

// AddScreenshot records the path of a captured screenshot.
func (r *RunReport) AddScreenshot(path string) {
	r.Screenshots = append(r.Screenshots, path)
}
