package model

import "time"

// RenderStartRequest is the client payload that starts a profile-video
// render. String lengths and list sizes beyond the documented bounds
// are clamped during sanitization, not rejected; an empty policy list
// after clamping is rejected.
type RenderStartRequest struct {
	DisplayName         string         `json:"displayName" validate:"required"`
	Label               string         `json:"label" validate:"required"`
	AvgConsensusSupport int            `json:"avgConsensusSupport"`
	Policies            []RenderPolicy `json:"policies" validate:"required,dive"`
	URLText             string         `json:"urlText,omitempty"`
}

// RenderStartResponse acknowledges a queued render.
type RenderStartResponse struct {
	JobID     string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// RenderStatusResponse is returned by status polls.
type RenderStatusResponse struct {
	JobID       string     `json:"jobId"`
	Status      JobStatus  `json:"status"`
	Stage       string     `json:"stage,omitempty"`
	Progress    float64    `json:"progress"`
	Error       *string    `json:"error,omitempty"`
	ShareURL    string     `json:"shareUrl,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
