package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

// NotificationHandler handles the in-app notification feed.
type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	unreadOnly := c.Query("unread") == "true"
	items, total, err := h.svc.List(c.Request.Context(), GetUserID(c), page, pageSize, unreadOnly)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, page, pageSize, total)
}

// UnreadCount GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.UnreadCount(c.Request.Context(), GetUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"count": count})
}

// MarkRead POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), GetUserID(c)); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// Delete DELETE /notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetUserID(c)); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// MarkAllRead POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.svc.MarkAllRead(c.Request.Context(), GetUserID(c)); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}
