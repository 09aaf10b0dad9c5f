package models

type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Job is the fire-and-poll record for a long-running operation. It lives in
// redis under job:<id> and is polled by operation id.
type Job struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Status   JobStatus `json:"status"`
	Progress int       `json:"progress"`
	Result   string    `json:"result,omitempty"`
	Error    string    `json:"error,omitempty"`
}
