package scheduler

import (
	"encoding/json"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rotisserie/eris"
)

const TaskCampaignRun = "campaigns.run"

type CampaignRunPayload struct {
	ICP string `json:"icp"`
}

func NewCampaignRunTask(payload CampaignRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignRun, data), nil
}

func ParseCampaignRunPayload(task *asynq.Task) (CampaignRunPayload, error) {
	var payload CampaignRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CampaignRunPayload{}, eris.Wrap(err, "scheduler: decode campaign payload")
	}
	payload.ICP = strings.TrimSpace(payload.ICP)
	return payload, nil
}
