package scheduler

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"revenue_engine_backend/internal/campaigns/transport"
	"revenue_engine_backend/platform/apperr"
	"revenue_engine_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// ResultRetention is how long finished campaign tasks stay inspectable.
const ResultRetention = 24 * time.Hour

type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		queue:     queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return errors.Join(c.client.Close(), c.inspector.Close())
}

func (c *Client) Queue() string {
	return c.queue
}

// EnqueueCampaign queues a campaign run. Campaigns are never retried: a
// second engine call for the same ICP would be a new campaign.
func (c *Client) EnqueueCampaign(ctx context.Context, icp string) (transport.EnqueuedCampaignResponse, error) {
	icp = strings.TrimSpace(icp)
	if icp == "" {
		return transport.EnqueuedCampaignResponse{}, apperr.BadRequest("ICP description is required")
	}

	task, err := NewCampaignRunTask(CampaignRunPayload{ICP: icp})
	if err != nil {
		return transport.EnqueuedCampaignResponse{}, err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(0),
		asynq.Retention(ResultRetention),
	)
	if err != nil {
		return transport.EnqueuedCampaignResponse{}, eris.Wrap(err, "scheduler: enqueue campaign")
	}

	return transport.EnqueuedCampaignResponse{TaskID: info.ID, Queue: info.Queue}, nil
}

// CampaignStatus reports the state of a queued campaign and, once it has
// completed, the campaign result written by the worker.
func (c *Client) CampaignStatus(_ context.Context, taskID string) (transport.CampaignTaskResponse, error) {
	info, err := c.inspector.GetTaskInfo(c.queue, taskID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return transport.CampaignTaskResponse{}, apperr.NotFound("Campaign not found")
		}
		return transport.CampaignTaskResponse{}, eris.Wrap(err, "scheduler: inspect campaign")
	}
	return taskResponse(info)
}

func taskResponse(info *asynq.TaskInfo) (transport.CampaignTaskResponse, error) {
	resp := transport.CampaignTaskResponse{
		TaskID: info.ID,
		Queue:  info.Queue,
		State:  info.State.String(),
		Error:  info.LastErr,
	}
	if !info.CompletedAt.IsZero() {
		completedAt := info.CompletedAt
		resp.CompletedAt = &completedAt
	}
	if len(info.Result) > 0 {
		var result transport.CampaignResponse
		if err := json.Unmarshal(info.Result, &result); err != nil {
			return transport.CampaignTaskResponse{}, eris.Wrap(err, "scheduler: decode campaign result")
		}
		resp.Result = &result
	}
	return resp, nil
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueue(); queue != "" {
		return queue
	}
	return "campaigns"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig(opt.TLSConfig, tlsInsecure),
	}, nil
}

func tlsConfig(base *tls.Config, insecure bool) *tls.Config {
	if base != nil {
		clone := base.Clone()
		if insecure {
			clone.InsecureSkipVerify = true
		}
		return clone
	}
	if insecure {
		return &tls.Config{InsecureSkipVerify: true}
	}
	return nil
}
