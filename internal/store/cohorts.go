package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicengine/api/internal/model"
)

// CohortStore keeps cohorts, rosters and positions. Primary-key reads
// are read-after-write; the join-code index is a secondary lookup.
type CohortStore struct {
	redis *redis.Client
}

func NewCohortStore(redisClient *redis.Client) *CohortStore {
	return &CohortStore{redis: redisClient}
}

func cohortKey(id string) string     { return fmt.Sprintf("cohort:%s", id) }
func joinCodeKey(code string) string { return fmt.Sprintf("cohort:code:%s", code) }
func membersKey(id string) string    { return fmt.Sprintf("cohort:%s:members", id) }
func positionsKey(id string) string  { return fmt.Sprintf("cohort:%s:positions", id) }
func positionField(userID, policyID string) string {
	return fmt.Sprintf("%s:%s", userID, policyID)
}

// SaveCohort writes the cohort record and its join-code index entry.
func (s *CohortStore) SaveCohort(ctx context.Context, cohort *model.Cohort) error {
	data, err := json.Marshal(cohort)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, cohortKey(cohort.ID), data, 0).Err(); err != nil {
		return err
	}
	return s.redis.Set(ctx, joinCodeKey(cohort.JoinCode), cohort.ID, 0).Err()
}

// GetCohort reads one cohort by id.
func (s *CohortStore) GetCohort(ctx context.Context, id string) (*model.Cohort, error) {
	data, err := s.redis.Get(ctx, cohortKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var cohort model.Cohort
	if err := json.Unmarshal(data, &cohort); err != nil {
		return nil, fmt.Errorf("corrupt cohort record %s: %w", id, err)
	}
	return &cohort, nil
}

// GetCohortByJoinCode resolves the join-code index, then the record.
func (s *CohortStore) GetCohortByJoinCode(ctx context.Context, code string) (*model.Cohort, error) {
	id, err := s.redis.Get(ctx, joinCodeKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.GetCohort(ctx, id)
}

// AddMember puts a student on the roster; re-joining is a no-op
// overwrite.
func (s *CohortStore) AddMember(ctx context.Context, cohortID string, member *model.Member) error {
	data, err := json.Marshal(member)
	if err != nil {
		return err
	}
	return s.redis.HSet(ctx, membersKey(cohortID), member.UserID, data).Err()
}

// ListMembers returns the roster in unspecified order.
func (s *CohortStore) ListMembers(ctx context.Context, cohortID string) ([]model.Member, error) {
	raw, err := s.redis.HGetAll(ctx, membersKey(cohortID)).Result()
	if err != nil {
		return nil, err
	}
	members := make([]model.Member, 0, len(raw))
	for _, v := range raw {
		var m model.Member
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

// GetPosition reads a student's current stance on a policy.
func (s *CohortStore) GetPosition(ctx context.Context, cohortID, userID, policyID string) (*model.Position, error) {
	data, err := s.redis.HGet(ctx, positionsKey(cohortID), positionField(userID, policyID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var pos model.Position
	if err := json.Unmarshal(data, &pos); err != nil {
		return nil, fmt.Errorf("corrupt position record: %w", err)
	}
	return &pos, nil
}

// SavePosition writes a stance, overwriting any earlier submission for
// the same (student, policy) pair.
func (s *CohortStore) SavePosition(ctx context.Context, pos *model.Position) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	return s.redis.HSet(ctx, positionsKey(pos.CohortID), positionField(pos.UserID, pos.PolicyID), data).Err()
}

// ListPositions returns every position in the cohort, newest first.
func (s *CohortStore) ListPositions(ctx context.Context, cohortID string) ([]model.Position, error) {
	raw, err := s.redis.HGetAll(ctx, positionsKey(cohortID)).Result()
	if err != nil {
		return nil, err
	}
	positions := make([]model.Position, 0, len(raw))
	for _, v := range raw {
		var p model.Position
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			continue
		}
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].UpdatedAt.After(positions[j].UpdatedAt)
	})
	return positions, nil
}

// touchCohort bumps a cohort's UpdatedAt; used by phase changes.
func (s *CohortStore) touchCohort(ctx context.Context, cohort *model.Cohort) error {
	cohort.UpdatedAt = time.Now()
	return s.SaveCohort(ctx, cohort)
}

// SetPhase moves the cohort to a new deliberation phase.
func (s *CohortStore) SetPhase(ctx context.Context, cohortID string, phase model.CohortPhase) (*model.Cohort, error) {
	cohort, err := s.GetCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	cohort.Phase = phase
	if err := s.touchCohort(ctx, cohort); err != nil {
		return nil, err
	}
	return cohort, nil
}
