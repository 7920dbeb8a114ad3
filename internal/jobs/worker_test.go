package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"surveyforge/internal/model"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) RunNow(ctx context.Context, hostID, formID string) (*model.AnalysisResult, error) {
	args := m.Called(ctx, hostID, formID)
	if r := args.Get(0); r != nil {
		return r.(*model.AnalysisResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestNewAnalysisTask(t *testing.T) {
	task, err := NewAnalysisTask("host-1", "db-1")
	require.NoError(t, err)

	assert.Equal(t, TypeRunAnalysis, task.Type())

	var payload AnalysisPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, AnalysisPayload{HostID: "host-1", FormID: "db-1"}, payload)
}

func TestAnalysisHandlerRunsAnalysis(t *testing.T) {
	runner := new(mockRunner)
	runner.On("RunNow", mock.Anything, "host-1", "db-1").
		Return(&model.AnalysisResult{Summary: "ok", ResponseCount: 2}, nil)

	task, err := NewAnalysisTask("host-1", "db-1")
	require.NoError(t, err)

	err = NewAnalysisHandler(runner)(context.Background(), task)

	assert.NoError(t, err)
	runner.AssertExpectations(t)
}

func TestAnalysisHandlerPropagatesFailures(t *testing.T) {
	runner := new(mockRunner)
	runner.On("RunNow", mock.Anything, "host-1", "db-1").Return(nil, errors.New("notion down"))

	task, _ := NewAnalysisTask("host-1", "db-1")
	err := NewAnalysisHandler(runner)(context.Background(), task)

	assert.EqualError(t, err, "notion down")
}

func TestAnalysisHandlerSkipsMissingForms(t *testing.T) {
	runner := new(mockRunner)
	runner.On("RunNow", mock.Anything, "host-1", "gone").Return(nil, ErrFormGone)

	task, _ := NewAnalysisTask("host-1", "gone")
	err := NewAnalysisHandler(runner)(context.Background(), task)

	assert.NoError(t, err)
}

func TestAnalysisHandlerRejectsBadPayload(t *testing.T) {
	runner := new(mockRunner)

	err := NewAnalysisHandler(runner)(context.Background(), asynq.NewTask(TypeRunAnalysis, []byte("{")))

	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	runner.AssertNotCalled(t, "RunNow", mock.Anything, mock.Anything, mock.Anything)
}
