package handler

import (
	"context"
	"net/http"
	"strings"

	"revenue_engine_backend/internal/campaigns/transport"
	"revenue_engine_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// CampaignRunner runs a campaign inside the request.
type CampaignRunner interface {
	Run(ctx context.Context, icp string) (transport.CampaignResponse, error)
}

// CampaignQueue hands campaigns to the background worker.
type CampaignQueue interface {
	EnqueueCampaign(ctx context.Context, icp string) (transport.EnqueuedCampaignResponse, error)
	CampaignStatus(ctx context.Context, taskID string) (transport.CampaignTaskResponse, error)
}

type Handler struct {
	runner CampaignRunner
	queue  CampaignQueue
}

const msgICPRequired = "ICP description is required"

// New builds the handler. queue may be nil, in which case only the
// synchronous endpoint is served.
func New(runner CampaignRunner, queue CampaignQueue) *Handler {
	return &Handler{runner: runner, queue: queue}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/start-campaign", h.StartCampaign)
	if h.queue != nil {
		rg.POST("/campaigns", h.EnqueueCampaign)
		rg.GET("/campaigns/:taskId", h.CampaignStatus)
	}
}

func (h *Handler) StartCampaign(c *gin.Context) {
	icp, ok := bindICP(c)
	if !ok {
		return
	}

	result, err := h.runner.Run(c.Request.Context(), icp)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) EnqueueCampaign(c *gin.Context) {
	icp, ok := bindICP(c)
	if !ok {
		return
	}

	queued, err := h.queue.EnqueueCampaign(c.Request.Context(), icp)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusAccepted, queued)
}

func (h *Handler) CampaignStatus(c *gin.Context) {
	status, err := h.queue.CampaignStatus(c.Request.Context(), c.Param("taskId"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, status)
}

// bindICP rejects a missing, blank or unreadable icp before anything
// leaves the process.
func bindICP(c *gin.Context) (string, bool) {
	var req transport.StartCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ICP) == "" {
		httpkit.Error(c, http.StatusBadRequest, msgICPRequired, nil)
		return "", false
	}
	return strings.TrimSpace(req.ICP), true
}
