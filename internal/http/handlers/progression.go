package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contentflow-backend/internal/domain/access"

	"github.com/yungbote/contentflow-backend/internal/http/response"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
	"github.com/yungbote/contentflow-backend/internal/progression"
	"github.com/yungbote/contentflow-backend/internal/services"
)

type ProgressionHandler struct {
	svc services.ProgressionService
}

func NewProgressionHandler(svc services.ProgressionService) *ProgressionHandler {
	return &ProgressionHandler{svc: svc}
}

func (h *ProgressionHandler) pass(code string, fn func(dbctx.Context) (progression.Summary, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sum, err := fn(dbcOf(c))
		if err != nil {
			response.RespondErr(c, code, err)
			return
		}
		response.RespondOK(c, gin.H{"summary": sum})
	}
}

// POST /api/admin/progression/reconcile
func (h *ProgressionHandler) Reconcile() gin.HandlerFunc {
	return h.pass("reconcile_failed", h.svc.RunReconciliation)
}

// POST /api/admin/progression/grant-access
func (h *ProgressionHandler) GrantAccess() gin.HandlerFunc {
	return h.pass("grant_access_failed", h.svc.BulkGrantAccessToAllUsers)
}

// POST /api/admin/progression/weekly-content
func (h *ProgressionHandler) WeeklyContent() gin.HandlerFunc {
	return h.pass("weekly_content_failed", h.svc.GenerateWeeklyContent)
}

// POST /api/admin/progression/daily-content
func (h *ProgressionHandler) DailyContent() gin.HandlerFunc {
	return h.pass("daily_content_failed", h.svc.GenerateDailyContent)
}

// POST /api/admin/progression/daily-advance
func (h *ProgressionHandler) DailyAdvance() gin.HandlerFunc {
	return h.pass("daily_advance_failed", h.svc.IncrementDailyContentForAllUsers)
}

// GET /api/me/access
func (h *ProgressionHandler) MyAccess(c *gin.Context) {
	uid, err := callerID(c)
	if err != nil {
		response.RespondErr(c, "unauthorized", err)
		return
	}
	rows, err := h.svc.ListAccessForUser(dbcOf(c), uid)
	if err != nil {
		response.RespondErr(c, "list_access_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"access": rows})
}

type grantUserAccessRequest struct {
	Target string `json:"target" binding:"required"`
}

// POST /api/admin/users/:id/access
// Body target is "article" or "series:<id>".
func (h *ProgressionHandler) GrantUserAccess(c *gin.Context) {
	userID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_user_id", err)
		return
	}
	var req grantUserAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, "invalid_request", bindErr(err))
		return
	}
	target, err := access.ParseTarget(req.Target)
	if err != nil {
		response.RespondErr(c, "invalid_target", fmt.Errorf("%v: %w", err, pkgerrors.ErrInvalidArgument))
		return
	}
	row, err := h.svc.GrantAccess(dbcOf(c), userID, target)
	if err != nil {
		response.RespondErr(c, "grant_access_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"access": row})
}
