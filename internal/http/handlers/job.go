package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contentflow-backend/internal/http/response"
	"github.com/yungbote/contentflow-backend/internal/services"
)

type JobHandler struct {
	jobs services.JobService
}

func NewJobHandler(jobs services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// POST /api/admin/jobs
// body: { "job_type": "...", "payload": {...} }
func (h *JobHandler) Enqueue(c *gin.Context) {
	var req struct {
		JobType string         `json:"job_type" binding:"required"`
		Payload map[string]any `json:"payload"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, "invalid_request", bindErr(err))
		return
	}
	uid, err := callerID(c)
	if err != nil {
		response.RespondErr(c, "unauthorized", err)
		return
	}
	job, err := h.jobs.Enqueue(dbcOf(c), uid, req.JobType, req.Payload)
	if err != nil {
		response.RespondErr(c, "enqueue_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"job": job})
}

// GET /api/admin/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_job_id", err)
		return
	}
	job, err := h.jobs.Get(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, "job_not_found", err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

// GET /api/admin/jobs?job_type=&limit=
func (h *JobHandler) ListJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	jobs, err := h.jobs.ListRecent(dbcOf(c), c.Query("job_type"), limit)
	if err != nil {
		response.RespondErr(c, "list_jobs_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"jobs": jobs})
}

// POST /api/admin/jobs/:id/cancel
func (h *JobHandler) CancelJob(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_job_id", err)
		return
	}
	job, err := h.jobs.Cancel(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, "cancel_job_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
