package handler

import (
	"wegram_server/middleware"
	"wegram_server/service"
	"wegram_server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	msgSvc *service.MessageService
}

func NewMessageHandler(msgSvc *service.MessageService) *MessageHandler {
	return &MessageHandler{msgSvc: msgSvc}
}

// Send 发私信（拉黑双方任一方向都拒绝）
func (h *MessageHandler) Send(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
		Content    string    `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	message, err := h.msgSvc.SendMessage(userID, req.ReceiverID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"message": message})
}

// GetConversations 会话列表：每个对端的最新私信 + 未读数
func (h *MessageHandler) GetConversations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	conversations, err := h.msgSvc.GetConversations(userID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"conversations": conversations})
}

// GetThread 与某个用户的完整往来记录
func (h *MessageHandler) GetThread(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	otherID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		utils.BadRequest(c, "invalid user id")
		return
	}

	limit, offset := parsePagination(c, 50)
	messages, err := h.msgSvc.GetThread(userID, otherID, limit, offset)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"messages": messages})
}

// MarkRead 把来自某个发送者的所有未读私信标记已读
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		SenderID uuid.UUID `json:"sender_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	count, err := h.msgSvc.MarkRead(userID, req.SenderID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"marked_read": count})
}
