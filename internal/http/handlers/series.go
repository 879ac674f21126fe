package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/http/response"
	"github.com/yungbote/contentflow-backend/internal/services"
)

type SeriesHandler struct {
	series services.SeriesService
}

func NewSeriesHandler(series services.SeriesService) *SeriesHandler {
	return &SeriesHandler{series: series}
}

// GET /api/series
func (h *SeriesHandler) ListSeries(c *gin.Context) {
	rows, err := h.series.ListSeries(dbcOf(c))
	if err != nil {
		response.RespondErr(c, "list_series_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"series": rows})
}

// GET /api/series/:id
func (h *SeriesHandler) GetSeries(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_series_id", err)
		return
	}
	s, err := h.series.GetSeries(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, "get_series_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"series": s})
}

// POST /api/admin/series
func (h *SeriesHandler) CreateSeries(c *gin.Context) {
	var req types.Series
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, "invalid_request", bindErr(err))
		return
	}
	s, err := h.series.CreateSeries(dbcOf(c), &req)
	if err != nil {
		response.RespondErr(c, "create_series_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"series": s})
}

// PUT /api/admin/series/:id
func (h *SeriesHandler) UpdateSeries(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_series_id", err)
		return
	}
	var req types.Series
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, "invalid_request", bindErr(err))
		return
	}
	s, err := h.series.UpdateSeries(dbcOf(c), id, &req)
	if err != nil {
		response.RespondErr(c, "update_series_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"series": s})
}

// DELETE /api/admin/series/:id
func (h *SeriesHandler) DeleteSeries(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_series_id", err)
		return
	}
	if err := h.series.DeleteSeries(dbcOf(c), id); err != nil {
		response.RespondErr(c, "delete_series_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/series/:id/episodes
func (h *SeriesHandler) ListEpisodes(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_series_id", err)
		return
	}
	eps, err := h.series.ListEpisodes(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, "list_episodes_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"episodes": eps})
}

// POST /api/admin/series/:id/episodes
func (h *SeriesHandler) CreateEpisode(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_series_id", err)
		return
	}
	var req types.Episode
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, "invalid_request", bindErr(err))
		return
	}
	ep, err := h.series.CreateEpisode(dbcOf(c), id, &req)
	if err != nil {
		response.RespondErr(c, "create_episode_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"episode": ep})
}

// PUT /api/admin/episodes/:id
func (h *SeriesHandler) UpdateEpisode(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_episode_id", err)
		return
	}
	var req types.Episode
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, "invalid_request", bindErr(err))
		return
	}
	ep, err := h.series.UpdateEpisode(dbcOf(c), id, &req)
	if err != nil {
		response.RespondErr(c, "update_episode_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"episode": ep})
}

// DELETE /api/admin/episodes/:id
func (h *SeriesHandler) DeleteEpisode(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_episode_id", err)
		return
	}
	if err := h.series.DeleteEpisode(dbcOf(c), id); err != nil {
		response.RespondErr(c, "delete_episode_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
