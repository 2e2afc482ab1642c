// Package store is the application's key-value persistence layer: the
// render job registry and the cohort records, both kept in Redis. The
// registry is owned by the orchestrator; everything else only reads it
// through these methods.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicengine/api/internal/model"
)

// ErrNotFound covers unknown ids and records already purged by
// retention — callers cannot tell the two apart.
var ErrNotFound = errors.New("not found")

// activeJobTTL bounds how long a non-terminal job record can linger if
// the process dies mid-render.
const activeJobTTL = time.Hour

// JobStore is the render job registry.
type JobStore struct {
	redis     *redis.Client
	retention time.Duration
}

// NewJobStore creates the registry. Terminal records expire after the
// retention window.
func NewJobStore(redisClient *redis.Client, retention time.Duration) *JobStore {
	return &JobStore{redis: redisClient, retention: retention}
}

func jobKey(id string) string {
	return fmt.Sprintf("job:%s", id)
}

// Save writes a new job record.
func (s *JobStore) Save(ctx context.Context, job *model.Job) error {
	return s.write(ctx, job)
}

// Get reads one job.
func (s *JobStore) Get(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.redis.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("corrupt job record %s: %w", jobID, err)
	}
	return &job, nil
}

// MarkRunning transitions queued → running. Terminal jobs are frozen;
// the update is dropped so late worker messages cannot resurrect them.
func (s *JobStore) MarkRunning(ctx context.Context, jobID string) (*model.Job, error) {
	return s.update(ctx, jobID, func(job *model.Job) {
		if job.Status.Terminal() {
			return
		}
		now := time.Now()
		job.Status = model.JobStatusRunning
		job.StartedAt = &now
	})
}

// SetProgress records a stage label and progress fraction. Progress
// never regresses once the job left queued.
func (s *JobStore) SetProgress(ctx context.Context, jobID, stage string, fraction float64) (*model.Job, error) {
	return s.update(ctx, jobID, func(job *model.Job) {
		if job.Status.Terminal() {
			return
		}
		job.Stage = stage
		if fraction > job.Progress {
			job.Progress = fraction
		}
	})
}

// MarkDone freezes the job as done with its artifact location.
func (s *JobStore) MarkDone(ctx context.Context, jobID, artifactPath, shareURL string) (*model.Job, error) {
	return s.update(ctx, jobID, func(job *model.Job) {
		if job.Status.Terminal() {
			return
		}
		now := time.Now()
		job.Status = model.JobStatusDone
		job.Stage = model.StageDone
		job.Progress = 1
		job.ArtifactPath = artifactPath
		job.ShareURL = shareURL
		job.CompletedAt = &now
	})
}

// MarkError freezes the job as failed with a human-readable message.
func (s *JobStore) MarkError(ctx context.Context, jobID, message string) (*model.Job, error) {
	return s.update(ctx, jobID, func(job *model.Job) {
		if job.Status.Terminal() {
			return
		}
		now := time.Now()
		job.Status = model.JobStatusError
		job.Stage = model.StageError
		job.Error = &message
		job.CompletedAt = &now
	})
}

// Delete purges a job record immediately (retention cleanup).
func (s *JobStore) Delete(ctx context.Context, jobID string) error {
	return s.redis.Del(ctx, jobKey(jobID)).Err()
}

// update applies a read-modify-write on one job record.
func (s *JobStore) update(ctx context.Context, jobID string, mutate func(*model.Job)) (*model.Job, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	mutate(job)
	job.UpdatedAt = time.Now()
	if err := s.write(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobStore) write(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	ttl := activeJobTTL
	if job.Status.Terminal() {
		ttl = s.retention
	}
	return s.redis.Set(ctx, jobKey(job.ID), data, ttl).Err()
}
