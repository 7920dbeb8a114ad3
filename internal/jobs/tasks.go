package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeRunAnalysis = "analysis:run"

type AnalysisPayload struct {
	HostID string `json:"host_id"`
	FormID string `json:"form_id"`
}

func NewAnalysisTask(hostID, formID string) (*asynq.Task, error) {
	payload, err := json.Marshal(AnalysisPayload{HostID: hostID, FormID: formID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRunAnalysis, payload), nil
}
