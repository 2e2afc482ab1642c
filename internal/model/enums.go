package model

// Job status
type JobStatus string

const (
	JobStatusQueued  JobStatus = "queued"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusError   JobStatus = "error"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusDone || s == JobStatusError
}

// Render stages — informational progress labels, not control flow.
const (
	StageBundling        = "bundling"
	StageStartingBrowser = "starting-browser"
	StageRendering       = "rendering"
	StageFinalizing      = "finalizing"
	StageDone            = "done"
	StageError           = "error"
)

// Cohort deliberation phases, in workflow order.
type CohortPhase string

const (
	PhaseExploration CohortPhase = "exploration"
	PhasePositions   CohortPhase = "positions"
	PhaseDiscussion  CohortPhase = "discussion"
	PhaseRevision    CohortPhase = "revision"
	PhaseReflection  CohortPhase = "reflection"
)

var ValidCohortPhases = []CohortPhase{
	PhaseExploration, PhasePositions, PhaseDiscussion, PhaseRevision, PhaseReflection,
}

// Position stances a student can take on a policy.
type Stance string

const (
	StanceSupport Stance = "support"
	StanceOppose  Stance = "oppose"
	StanceUnsure  Stance = "unsure"
)
