package model

import "time"

// Job is one in-flight or retained profile-video render.
type Job struct {
	ID       string    `json:"id"`
	Status   JobStatus `json:"status"`
	Stage    string    `json:"stage,omitempty"`
	Progress float64   `json:"progress"` // 0..1, never regresses after leaving queued
	Error    *string   `json:"error,omitempty"`

	// ArtifactPath is set only once the worker reports done; the file
	// is owned by the orchestrator until retention purges it. The path
	// is never exposed over the API — handlers map it to a download.
	ArtifactPath string `json:"artifactPath,omitempty"`
	// ShareURL is set when object storage is configured and the
	// artifact was mirrored there.
	ShareURL string `json:"shareUrl,omitempty"`

	Payload []byte `json:"-"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// RenderJobPayload is the sanitized input handed to the render worker.
type RenderJobPayload struct {
	DisplayName         string         `json:"displayName"`
	Label               string         `json:"label"`
	AvgConsensusSupport int            `json:"avgConsensusSupport"`
	Policies            []RenderPolicy `json:"policies"`
	URLText             string         `json:"urlText,omitempty"`
}

// RenderPolicy is one policy card in the rendered profile video.
type RenderPolicy struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	AverageSupport int    `json:"averageSupport"`
}
