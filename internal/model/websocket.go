package model

// WebSocket message types
const (
	WSMessageTypeStatus = "status"
	WSMessageTypePing   = "ping"
	WSMessageTypePong   = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSStatusMessage is a job state transition pushed to subscribers. The
// same shape carries queued/running progress and the terminal done or
// error record, so a late subscriber's snapshot is indistinguishable
// from a live update.
type WSStatusMessage struct {
	Type     string    `json:"type"`
	JobID    string    `json:"jobId"`
	Status   JobStatus `json:"status"`
	Stage    string    `json:"stage,omitempty"`
	Progress float64   `json:"progress"`
	Error    *string   `json:"error,omitempty"`
	ShareURL string    `json:"shareUrl,omitempty"`
}

// StatusMessage builds the push message for a job's current state.
func StatusMessage(job *Job) WSStatusMessage {
	return WSStatusMessage{
		Type:     WSMessageTypeStatus,
		JobID:    job.ID,
		Status:   job.Status,
		Stage:    job.Stage,
		Progress: job.Progress,
		Error:    job.Error,
		ShareURL: job.ShareURL,
	}
}
