package handler

import (
	"wegram_server/middleware"
	"wegram_server/service"
	"wegram_server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	notifSvc *service.NotificationService
}

func NewNotificationHandler(notifSvc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifSvc: notifSvc}
}

// List 最近通知（最多 50 条）
func (h *NotificationHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	notifications, err := h.notifSvc.GetNotifications(userID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"notifications": notifications})
}

// Create 创建通知
// 发起者即接收者时静默跳过（请求成功但不落库）
func (h *NotificationHandler) Create(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		UserID  uuid.UUID  `json:"user_id" binding:"required"`
		Type    string     `json:"type" binding:"required"`
		Message string     `json:"message" binding:"required,max=500"`
		ActorID *uuid.UUID `json:"actor_id"`
		PostID  *uuid.UUID `json:"post_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	notification, err := h.notifSvc.CreateNotification(req.UserID, req.ActorID, req.Type, req.Message, req.PostID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	if notification == nil {
		// 自操作抑制
		utils.SuccessWithMessage(c, "self-notification suppressed", nil)
		return
	}

	utils.CreatedResponse(c, gin.H{"notification": notification})
}

// MarkRead 标记已读：指定若干条，或 all=true 标记全部
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		NotificationIDs []uuid.UUID `json:"notification_ids"`
		All             bool        `json:"all"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if !req.All && len(req.NotificationIDs) == 0 {
		utils.BadRequest(c, "notification_ids or all is required")
		return
	}

	count, err := h.notifSvc.MarkRead(userID, req.NotificationIDs, req.All)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"marked_read": count})
}
