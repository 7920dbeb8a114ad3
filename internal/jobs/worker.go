package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"surveyforge/internal/model"
)

// ErrFormGone marks analysis tasks whose form no longer exists
var ErrFormGone = errors.New("form no longer exists")

// AnalysisRunner performs one analysis synchronously
type AnalysisRunner interface {
	RunNow(ctx context.Context, hostID, formID string) (*model.AnalysisResult, error)
}

// NewAnalysisHandler returns the asynq handler for TypeRunAnalysis
func NewAnalysisHandler(runner AnalysisRunner) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AnalysisPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			log.Println("[Jobs] payload decode error:", err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		log.Printf("[Jobs] running analysis for form %s", payload.FormID)
		result, err := runner.RunNow(ctx, payload.HostID, payload.FormID)
		if errors.Is(err, ErrFormGone) {
			log.Printf("[Jobs] form %s not found, skipping task", payload.FormID)
			return nil
		}
		if err != nil {
			log.Printf("[Jobs] ERROR: analysis for %s failed: %v", payload.FormID, err)
			return err
		}

		log.Printf("[Jobs] analysis for %s done (%d responses)", payload.FormID, result.ResponseCount)
		return nil
	}
}

// RegisterHandlers binds every task type to mux
func RegisterHandlers(mux *asynq.ServeMux, runner AnalysisRunner) {
	mux.Handle(TypeRunAnalysis, NewAnalysisHandler(runner))
}

// NewServer creates the worker server
func NewServer(redisAddr string, concurrency int) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
}

// Queue enqueues background tasks
type Queue struct {
	client *asynq.Client
}

// NewQueue creates a task queue on redisAddr
func NewQueue(redisAddr string) *Queue {
	return &Queue{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// EnqueueAnalysis queues an analysis run. Requests for the same form within
// the same minute share one task.
func (q *Queue) EnqueueAnalysis(ctx context.Context, hostID, formID string) (string, error) {
	task, err := NewAnalysisTask(hostID, formID)
	if err != nil {
		return "", err
	}

	taskID := "analysis-" + formID + "-" + time.Now().UTC().Format("200601021504")
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.TaskID(taskID),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return taskID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to enqueue analysis: %w", err)
	}
	return info.ID, nil
}

// Close releases the underlying Redis connection
func (q *Queue) Close() error {
	return q.client.Close()
}
