package model

import "time"

// Cohort is a teacher-managed deliberation group.
type Cohort struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	OwnerID   string      `json:"ownerId"`
	JoinCode  string      `json:"joinCode"`
	Phase     CohortPhase `json:"phase"`
	PolicyIDs []string    `json:"policyIds"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Position is a student's stance on one policy within a cohort.
// Resubmitting overwrites the previous record (a revision), keeping the
// original creation time.
type Position struct {
	ID         string    `json:"id"`
	CohortID   string    `json:"cohortId"`
	UserID     string    `json:"userId"`
	PolicyID   string    `json:"policyId"`
	Stance     Stance    `json:"stance"`
	Reflection string    `json:"reflection,omitempty"`
	Revised    bool      `json:"revised"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateCohortRequest creates a cohort (teacher role required).
type CreateCohortRequest struct {
	Name      string   `json:"name" validate:"required,max=120"`
	PolicyIDs []string `json:"policyIds" validate:"required,min=1,max=20,dive,required"`
}

// JoinCohortRequest adds the caller to a cohort roster.
type JoinCohortRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=80"`
}

// SubmitPositionRequest records or revises a stance.
type SubmitPositionRequest struct {
	PolicyID   string `json:"policyId" validate:"required"`
	Stance     Stance `json:"stance" validate:"required,oneof=support oppose unsure"`
	Reflection string `json:"reflection" validate:"max=2000"`
}

// Member is one student on a cohort roster.
type Member struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	JoinedAt    time.Time `json:"joinedAt"`
}
