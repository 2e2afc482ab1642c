package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/civicengine/api/internal/render"
	"github.com/civicengine/api/internal/service"
)

// RenderWorker consumes queued render tasks and drives one isolated
// worker process per job. Progress and terminal transitions flow back
// through the render service, which owns the registry and the push
// fan-out.
type RenderWorker struct {
	renderService *service.RenderService
	runner        *render.Runner
}

// NewRenderWorker creates a new render worker
func NewRenderWorker(renderService *service.RenderService, runner *render.Runner) *RenderWorker {
	return &RenderWorker{
		renderService: renderService,
		runner:        runner,
	}
}

// ProcessTask handles one render task. The returned error is for asynq
// bookkeeping only; the user-visible outcome is always written to the
// job record first.
func (w *RenderWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var taskPayload struct {
		JobID   string          `json:"jobId"`
		Payload json.RawMessage `json:"payload"`
	}

	if err := json.Unmarshal(t.Payload(), &taskPayload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	jobID := taskPayload.JobID
	log.Printf("Starting render job: %s", jobID)

	if err := w.renderService.BeginJob(ctx, jobID); err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}

	outputPath := w.renderService.ArtifactFile(jobID)
	err := w.runner.Run(ctx, taskPayload.Payload, outputPath, func(stage string, fraction float64) {
		if perr := w.renderService.ReportProgress(ctx, jobID, stage, fraction); perr != nil {
			log.Printf("Job %s: failed to report progress: %v", jobID, perr)
		}
	})
	if err != nil {
		msg := err.Error()
		if errors.Is(err, render.ErrTimeout) {
			msg = "Render timed out"
		}
		w.failJob(ctx, jobID, msg)
		return err
	}

	if err := w.renderService.CompleteJob(ctx, jobID, outputPath); err != nil {
		w.failJob(ctx, jobID, "Failed to record result")
		return err
	}

	log.Printf("Render job %s completed", jobID)
	return nil
}

func (w *RenderWorker) failJob(ctx context.Context, jobID, errMsg string) {
	if err := w.renderService.FailJob(ctx, jobID, errMsg); err != nil {
		log.Printf("Failed to mark job %s as failed: %v", jobID, err)
	}
}
