package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	domainprogress "github.com/yungbote/contentflow-backend/internal/domain/progress"
	"github.com/yungbote/contentflow-backend/internal/http/response"
	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
	"github.com/yungbote/contentflow-backend/internal/services"
)

var progressKinds = map[string]domainprogress.TargetKind{
	"episodes": domainprogress.TargetEpisode,
	"articles": domainprogress.TargetArticle,
	"weeks":    domainprogress.TargetWeek,
}

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// POST /api/progress/:kind/:id/complete
func (h *ProgressHandler) Complete(c *gin.Context) {
	kind, ok := progressKinds[c.Param("kind")]
	if !ok {
		response.RespondErr(c, "invalid_kind", fmt.Errorf("unknown progress kind %q: %w", c.Param("kind"), pkgerrors.ErrInvalidArgument))
		return
	}
	targetID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_target_id", err)
		return
	}
	uid, err := callerID(c)
	if err != nil {
		response.RespondErr(c, "unauthorized", err)
		return
	}
	row, err := h.progress.Complete(dbcOf(c), uid, kind, targetID)
	if err != nil {
		response.RespondErr(c, "complete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}

// GET /api/me/progress
func (h *ProgressHandler) MyProgress(c *gin.Context) {
	uid, err := callerID(c)
	if err != nil {
		response.RespondErr(c, "unauthorized", err)
		return
	}
	rows, err := h.progress.ListForUser(dbcOf(c), uid)
	if err != nil {
		response.RespondErr(c, "list_progress_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"progress": rows})
}
