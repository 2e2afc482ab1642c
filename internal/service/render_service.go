package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/civicengine/api/internal/client"
	"github.com/civicengine/api/internal/model"
	"github.com/civicengine/api/internal/store"
	"github.com/civicengine/api/internal/websocket"
)

const TaskTypeRender = "render:profile"

var (
	// ErrEmptySelection means sanitization left no renderable policies.
	ErrEmptySelection = errors.New("no valid policies in selection")
	// ErrNotFinished means the artifact was requested before the job
	// reached done.
	ErrNotFinished = errors.New("job not finished")
)

// RenderService owns the render job lifecycle: it accepts submissions,
// queues them, applies worker-reported transitions to the registry, and
// fans every transition out to push subscribers. Finished artifacts are
// purged after the retention window.
type RenderService struct {
	jobs        *store.JobStore
	hub         *websocket.Hub
	asynqClient *asynq.Client
	storage     client.StorageClient // nil when object storage is not configured

	artifactsDir string
	retention    time.Duration
}

func NewRenderService(jobs *store.JobStore, hub *websocket.Hub, asynqClient *asynq.Client, storage client.StorageClient, artifactsDir string, retention time.Duration) *RenderService {
	return &RenderService{
		jobs:         jobs,
		hub:          hub,
		asynqClient:  asynqClient,
		storage:      storage,
		artifactsDir: artifactsDir,
		retention:    retention,
	}
}

// Start sanitizes a submission and queues a render job.
func (s *RenderService) Start(ctx context.Context, req *model.RenderStartRequest) (*model.RenderStartResponse, error) {
	payload := sanitizeRenderRequest(req)
	if len(payload.Policies) == 0 {
		return nil, ErrEmptySelection
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	jobID := uuid.New().String()
	now := time.Now()
	job := &model.Job{
		ID:        jobID,
		Status:    model.JobStatusQueued,
		Progress:  0,
		Payload:   payloadBytes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	task, err := newRenderTask(jobID, payloadBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// A failed render is surfaced to the user as a terminal error
	// record, never retried behind their back.
	_, err = s.asynqClient.Enqueue(task,
		asynq.Queue("render"),
		asynq.MaxRetry(0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	return &model.RenderStartResponse{
		JobID:     jobID,
		Status:    model.JobStatusQueued,
		CreatedAt: now,
	}, nil
}

// GetStatus returns the current state of a render job.
func (s *RenderService) GetStatus(ctx context.Context, jobID string) (*model.RenderStatusResponse, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &model.RenderStatusResponse{
		JobID:       job.ID,
		Status:      job.Status,
		Stage:       job.Stage,
		Progress:    job.Progress,
		Error:       job.Error,
		ShareURL:    job.ShareURL,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}, nil
}

// Artifact returns the local path of a finished job's video.
func (s *RenderService) Artifact(ctx context.Context, jobID string) (string, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return "", err
	}
	if job.Status != model.JobStatusDone {
		return "", ErrNotFinished
	}
	if job.ArtifactPath == "" {
		return "", store.ErrNotFound
	}
	if _, err := os.Stat(job.ArtifactPath); err != nil {
		return "", store.ErrNotFound
	}
	return job.ArtifactPath, nil
}

// Snapshot returns the push-protocol message for a job's current state,
// used to seed new subscribers before live updates.
func (s *RenderService) Snapshot(ctx context.Context, jobID string) ([]byte, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(model.StatusMessage(job))
}

// TerminalSnapshot returns the push-protocol message for a job only when
// it already reached a terminal state, nil otherwise. Subscribers re-check
// with it after registration: a done or error transition that landed
// between their snapshot read and registration would otherwise never be
// delivered, because nothing is broadcast after it.
func (s *RenderService) TerminalSnapshot(ctx context.Context, jobID string) []byte {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil || !job.Status.Terminal() {
		return nil
	}
	data, err := json.Marshal(model.StatusMessage(job))
	if err != nil {
		return nil
	}
	return data
}

// WaitForDone polls the registry until the job reaches a terminal
// state or the context expires. A convenience for callers that cannot
// hold a subscription open.
func (s *RenderService) WaitForDone(ctx context.Context, jobID string, interval time.Duration) (*model.RenderStatusResponse, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := s.GetStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if status.Status.Terminal() {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ArtifactFile returns the path the worker should render into.
func (s *RenderService) ArtifactFile(jobID string) string {
	return filepath.Join(s.artifactsDir, "profile-"+jobID+".webm")
}

// BeginJob transitions a job to running (called by the worker).
func (s *RenderService) BeginJob(ctx context.Context, jobID string) error {
	job, err := s.jobs.MarkRunning(ctx, jobID)
	if err != nil {
		return err
	}
	s.hub.BroadcastStatus(job)
	return nil
}

// ReportProgress records a stage and progress fraction (called by the
// worker). Regressions are dropped by the registry.
func (s *RenderService) ReportProgress(ctx context.Context, jobID, stage string, fraction float64) error {
	job, err := s.jobs.SetProgress(ctx, jobID, stage, fraction)
	if err != nil {
		return err
	}
	s.hub.BroadcastStatus(job)
	return nil
}

// CompleteJob freezes a job as done. When object storage is configured
// the artifact is mirrored there and the share URL recorded; upload
// failures degrade to local-only delivery rather than failing the job.
func (s *RenderService) CompleteJob(ctx context.Context, jobID, artifactPath string) error {
	shareURL := ""
	if s.storage != nil {
		if url, err := s.uploadArtifact(ctx, jobID, artifactPath); err != nil {
			log.Printf("Job %s: artifact upload failed: %v", jobID, err)
		} else {
			shareURL = url
		}
	}

	job, err := s.jobs.MarkDone(ctx, jobID, artifactPath, shareURL)
	if err != nil {
		return err
	}
	s.hub.BroadcastStatus(job)
	s.scheduleCleanup(jobID, artifactPath)
	return nil
}

// FailJob freezes a job as failed with a human-readable message.
func (s *RenderService) FailJob(ctx context.Context, jobID, errMsg string) error {
	job, err := s.jobs.MarkError(ctx, jobID, errMsg)
	if err != nil {
		return err
	}
	s.hub.BroadcastStatus(job)
	s.scheduleCleanup(jobID, s.ArtifactFile(jobID))
	return nil
}

// shareLinkTTL bounds presigned share links for private buckets; S3
// rejects anything past seven days.
const shareLinkTTL = 7 * 24 * time.Hour

func (s *RenderService) uploadArtifact(ctx context.Context, jobID, artifactPath string) (string, error) {
	f, err := os.Open(artifactPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := fmt.Sprintf("renders/%s.webm", jobID)
	if _, err := s.storage.Upload(ctx, key, f, "video/webm"); err != nil {
		return "", err
	}
	if url := s.storage.GetPublicURL(key); url != "" {
		return url, nil
	}
	// Private bucket: the share link is a time-limited signed URL.
	return s.storage.GetSignedURL(ctx, key, shareLinkTTL)
}

// scheduleCleanup purges the job record and its artifact after the
// retention window. The registry TTL is the backstop if the process
// dies before the timer fires.
func (s *RenderService) scheduleCleanup(jobID, artifactPath string) {
	time.AfterFunc(s.retention, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if artifactPath != "" {
			if err := os.Remove(artifactPath); err != nil && !os.IsNotExist(err) {
				log.Printf("Job %s: failed to remove artifact: %v", jobID, err)
			}
		}
		if err := s.jobs.Delete(ctx, jobID); err != nil {
			log.Printf("Job %s: failed to purge record: %v", jobID, err)
		}
	})
}

// SweepArtifacts removes render outputs left behind by a previous
// process, run once at startup. Anything older than the retention
// window has no live job record pointing at it.
func (s *RenderService) SweepArtifacts() {
	entries, err := os.ReadDir(s.artifactsDir)
	if err != nil {
		log.Printf("Artifact sweep skipped: %v", err)
		return
	}

	cutoff := time.Now().Add(-s.retention)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "profile-") || !strings.HasSuffix(name, ".webm") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.artifactsDir, name)
		if err := os.Remove(path); err != nil {
			log.Printf("Artifact sweep: failed to remove %s: %v", path, err)
		}
	}
}

func newRenderTask(jobID string, payload []byte) (*asynq.Task, error) {
	taskPayload := map[string]interface{}{
		"jobId":   jobID,
		"payload": payload,
	}
	data, err := json.Marshal(taskPayload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRender, data), nil
}
