package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/contentflow-backend/internal/http/response"
	"github.com/yungbote/contentflow-backend/internal/services"
)

// ContentHandler serves CRUD for one orderable content kind. Routes are
// mounted under /api/admin/content/<kind>.
type ContentHandler[T any] struct {
	svc services.ContentService[T]
}

func NewContentHandler[T any](svc services.ContentService[T]) *ContentHandler[T] {
	return &ContentHandler[T]{svc: svc}
}

func (h *ContentHandler[T]) Kind() string { return string(h.svc.Kind()) }

func (h *ContentHandler[T]) Mount(g *gin.RouterGroup) {
	kg := g.Group("/" + h.Kind())
	kg.GET("", h.List)
	kg.POST("", h.Create)
	kg.GET("/:id", h.Get)
	kg.PUT("/:id", h.Update)
	kg.DELETE("/:id", h.Delete)
}

func (h *ContentHandler[T]) List(c *gin.Context) {
	items, err := h.svc.List(dbcOf(c))
	if err != nil {
		response.RespondErr(c, "list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}

func (h *ContentHandler[T]) Create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		response.RespondErr(c, "invalid_request", bindErr(err))
		return
	}
	created, err := h.svc.Create(dbcOf(c), &item)
	if err != nil {
		response.RespondErr(c, "create_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"item": created})
}

func (h *ContentHandler[T]) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_id", err)
		return
	}
	item, err := h.svc.Get(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, "get_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"item": item})
}

func (h *ContentHandler[T]) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_id", err)
		return
	}
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		response.RespondErr(c, "invalid_request", bindErr(err))
		return
	}
	updated, err := h.svc.Update(dbcOf(c), id, &item)
	if err != nil {
		response.RespondErr(c, "update_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"item": updated})
}

func (h *ContentHandler[T]) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_id", err)
		return
	}
	if err := h.svc.Delete(dbcOf(c), id); err != nil {
		response.RespondErr(c, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// Mounter lets the router mount heterogeneous ContentHandler instantiations.
type Mounter interface {
	Kind() string
	Mount(g *gin.RouterGroup)
}

// ContentHandlers builds one handler per content kind.
func ContentHandlers(cs services.ContentServices) []Mounter {
	return []Mounter{
		NewContentHandler(cs.Articles),
		NewContentHandler(cs.Affirmations),
		NewContentHandler(cs.Aphorisms),
		NewContentHandler(cs.Music),
		NewContentHandler(cs.Movies),
		NewContentHandler(cs.Tasks),
		NewContentHandler(cs.WeeklyQuestions),
	}
}
