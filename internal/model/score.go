package model

import "github.com/civicengine/api/internal/scoring"

// ScoreRequest asks for personalized scores over a policy selection.
// Weights may come from an archetype preset, explicit per-lens maps, or
// be omitted entirely (balanced defaults).
type ScoreRequest struct {
	PolicyIDs []string      `json:"policyIds" validate:"required,min=1,max=50,dive,required"`
	Archetype string        `json:"archetype,omitempty"`
	Weights   *WeightInputs `json:"weights,omitempty"`
}

// WeightInputs carries the optional per-lens weight maps from the
// questionnaire. Absent lenses use the documented defaults.
type WeightInputs struct {
	Impact  scoring.ImpactWeights  `json:"impact,omitempty"`
	Economy scoring.EconomyWeights `json:"economics,omitempty"`
	Needs   scoring.NeedsWeights   `json:"needs,omitempty"`
	Lenses  *scoring.LensWeights   `json:"lenses,omitempty"`
}

// PolicyScore is one policy's scores across the lenses. Nil pointers
// mean "no factor data under that lens" — a placeholder, not a zero.
type PolicyScore struct {
	PolicyID       string `json:"policyId"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	AverageSupport int    `json:"averageSupport"`

	Impact  *int `json:"impact"`
	Economy *int `json:"economics"`
	Needs   *int `json:"needs"`
	Overall *int `json:"overall"`

	Insight string `json:"insight,omitempty"`
}

// ScoreResponse is the personalized profile for a selection.
type ScoreResponse struct {
	Scores              []PolicyScore `json:"scores"`
	AvgConsensusSupport int           `json:"avgConsensusSupport"`
}

// PolicyListResponse carries the catalog with baseline scores.
type PolicyListResponse struct {
	Policies []PolicyScore `json:"policies"`
}
