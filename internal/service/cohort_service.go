package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/civicengine/api/internal/model"
	"github.com/civicengine/api/internal/policy"
	"github.com/civicengine/api/internal/store"
)

var (
	// ErrNotOwner means the caller does not own the cohort.
	ErrNotOwner = errors.New("not the cohort owner")
	// ErrPhaseClosed means the cohort's current phase does not accept
	// position submissions.
	ErrPhaseClosed = errors.New("positions are closed in this phase")
	// ErrPolicyNotInCohort means the policy is not part of the cohort's
	// selection.
	ErrPolicyNotInCohort = errors.New("policy not in cohort")
	// ErrInvalidPhase means the requested phase name is not one of the
	// workflow phases.
	ErrInvalidPhase = errors.New("invalid phase")
)

// joinCodeAlphabet avoids ambiguous characters so codes survive being
// read aloud in a classroom.
const (
	joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	joinCodeLen      = 6
)

// CohortService manages teacher-led deliberation groups: creation,
// roster joins by code, the phase workflow, and student positions.
type CohortService struct {
	cohorts *store.CohortStore
	catalog *policy.Catalog
}

func NewCohortService(cohorts *store.CohortStore, catalog *policy.Catalog) *CohortService {
	return &CohortService{cohorts: cohorts, catalog: catalog}
}

// Create starts a new cohort in the exploration phase. Every selected
// policy must exist in the catalog.
func (s *CohortService) Create(ctx context.Context, ownerID string, req *model.CreateCohortRequest) (*model.Cohort, error) {
	for _, id := range req.PolicyIDs {
		if _, ok := s.catalog.Get(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, id)
		}
	}

	code, err := generateJoinCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate join code: %w", err)
	}

	now := time.Now()
	cohort := &model.Cohort{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		OwnerID:   ownerID,
		JoinCode:  code,
		Phase:     model.PhaseExploration,
		PolicyIDs: req.PolicyIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.cohorts.SaveCohort(ctx, cohort); err != nil {
		return nil, err
	}
	return cohort, nil
}

// Get returns one cohort by id.
func (s *CohortService) Get(ctx context.Context, cohortID string) (*model.Cohort, error) {
	return s.cohorts.GetCohort(ctx, cohortID)
}

// GetByCode resolves a join code to its cohort.
func (s *CohortService) GetByCode(ctx context.Context, code string) (*model.Cohort, error) {
	return s.cohorts.GetCohortByJoinCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// Join adds the caller to a cohort roster. Re-joining refreshes the
// display name and is otherwise a no-op.
func (s *CohortService) Join(ctx context.Context, cohortID, userID string, req *model.JoinCohortRequest) (*model.Cohort, error) {
	cohort, err := s.cohorts.GetCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	member := &model.Member{
		UserID:      userID,
		DisplayName: strings.TrimSpace(req.DisplayName),
		JoinedAt:    time.Now(),
	}
	if err := s.cohorts.AddMember(ctx, cohort.ID, member); err != nil {
		return nil, err
	}
	return cohort, nil
}

// Members returns the cohort roster.
func (s *CohortService) Members(ctx context.Context, cohortID string) ([]model.Member, error) {
	if _, err := s.cohorts.GetCohort(ctx, cohortID); err != nil {
		return nil, err
	}
	return s.cohorts.ListMembers(ctx, cohortID)
}

// SetPhase moves the cohort to a new deliberation phase. Owner only;
// any phase can be entered in any order so a teacher can back up.
func (s *CohortService) SetPhase(ctx context.Context, cohortID, callerID string, phase model.CohortPhase) (*model.Cohort, error) {
	if !validPhase(phase) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPhase, phase)
	}

	cohort, err := s.cohorts.GetCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	if cohort.OwnerID != callerID {
		return nil, ErrNotOwner
	}
	return s.cohorts.SetPhase(ctx, cohortID, phase)
}

// SubmitPosition records or revises a stance. Submissions are only open
// during the positions and revision phases; a resubmission in the
// revision phase keeps the original creation time and is flagged
// revised.
func (s *CohortService) SubmitPosition(ctx context.Context, cohortID, userID string, req *model.SubmitPositionRequest) (*model.Position, error) {
	cohort, err := s.cohorts.GetCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	if cohort.Phase != model.PhasePositions && cohort.Phase != model.PhaseRevision {
		return nil, ErrPhaseClosed
	}
	if !containsString(cohort.PolicyIDs, req.PolicyID) {
		return nil, fmt.Errorf("%w: %s", ErrPolicyNotInCohort, req.PolicyID)
	}

	now := time.Now()
	pos := &model.Position{
		ID:         uuid.New().String(),
		CohortID:   cohortID,
		UserID:     userID,
		PolicyID:   req.PolicyID,
		Stance:     req.Stance,
		Reflection: strings.TrimSpace(req.Reflection),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if prev, err := s.cohorts.GetPosition(ctx, cohortID, userID, req.PolicyID); err == nil {
		pos.ID = prev.ID
		pos.CreatedAt = prev.CreatedAt
		pos.Revised = true
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if err := s.cohorts.SavePosition(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// Positions returns every position in the cohort, newest first.
func (s *CohortService) Positions(ctx context.Context, cohortID string) ([]model.Position, error) {
	if _, err := s.cohorts.GetCohort(ctx, cohortID); err != nil {
		return nil, err
	}
	return s.cohorts.ListPositions(ctx, cohortID)
}

func validPhase(phase model.CohortPhase) bool {
	for _, p := range model.ValidCohortPhases {
		if p == phase {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func generateJoinCode() (string, error) {
	// Rejection sampling: 256 is not a multiple of the alphabet size, so
	// taking every byte mod len would skew toward the low characters.
	limit := byte(256 - 256%len(joinCodeAlphabet))
	code := make([]byte, 0, joinCodeLen)
	buf := make([]byte, 2*joinCodeLen)
	for len(code) < joinCodeLen {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, joinCodeAlphabet[int(b)%len(joinCodeAlphabet)])
			if len(code) == joinCodeLen {
				break
			}
		}
	}
	return string(code), nil
}
