package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/contentflow-backend/internal/http/response"
	"github.com/yungbote/contentflow-backend/internal/services"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GET /api/me
func (h *UserHandler) GetMe(c *gin.Context) {
	uid, err := callerID(c)
	if err != nil {
		response.RespondErr(c, "unauthorized", err)
		return
	}
	me, err := h.users.GetUser(dbcOf(c), uid)
	if err != nil {
		response.RespondErr(c, "get_me_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// GET /api/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(dbcOf(c))
	if err != nil {
		response.RespondErr(c, "list_users_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

// GET /api/admin/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_user_id", err)
		return
	}
	u, err := h.users.GetUser(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, "get_user_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// POST /api/admin/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, "invalid_request", bindErr(err))
		return
	}
	u, err := h.users.CreateUser(dbcOf(c), req)
	if err != nil {
		response.RespondErr(c, "create_user_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"user": u})
}

// PATCH /api/admin/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_user_id", err)
		return
	}
	var req services.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, "invalid_request", bindErr(err))
		return
	}
	u, err := h.users.UpdateUser(dbcOf(c), id, req)
	if err != nil {
		response.RespondErr(c, "update_user_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// DELETE /api/admin/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_user_id", err)
		return
	}
	if err := h.users.DeleteUser(dbcOf(c), id); err != nil {
		response.RespondErr(c, "delete_user_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /api/admin/users/:id/keci-time
// body: { "keci_time": "HH:MM" }
func (h *UserHandler) AddKeciTime(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, "invalid_user_id", err)
		return
	}
	var req struct {
		KeciTime string `json:"keci_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, "invalid_request", bindErr(err))
		return
	}
	if err := h.users.AddKeciTime(dbcOf(c), id, req.KeciTime); err != nil {
		response.RespondErr(c, "keci_time_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
