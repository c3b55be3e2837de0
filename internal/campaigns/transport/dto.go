package transport

import (
	"encoding/json"
	"time"
)

// Request DTOs
type StartCampaignRequest struct {
	ICP string `json:"icp"`
}

// Response DTOs

// CampaignData mirrors the engine's data block with persistence errors appended.
type CampaignData struct {
	Leads   []json.RawMessage `json:"leads"`
	Reports []json.RawMessage `json:"reports"`
	Errors  []string          `json:"errors"`
}

type CampaignResponse struct {
	Status string       `json:"status"`
	Data   CampaignData `json:"data"`
}

type EnqueuedCampaignResponse struct {
	TaskID string `json:"taskId"`
	Queue  string `json:"queue"`
}

type CampaignTaskResponse struct {
	TaskID      string            `json:"taskId"`
	Queue       string            `json:"queue"`
	State       string            `json:"state"`
	Error       string            `json:"error,omitempty"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
	Result      *CampaignResponse `json:"result,omitempty"`
}
