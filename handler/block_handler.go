package handler

import (
	"wegram_server/middleware"
	"wegram_server/service"
	"wegram_server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BlockHandler struct {
	blockSvc *service.BlockService
}

func NewBlockHandler(blockSvc *service.BlockService) *BlockHandler {
	return &BlockHandler{blockSvc: blockSvc}
}

// Block 拉黑用户（级联双向取关 + 重算双方计数）
func (h *BlockHandler) Block(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		BlockedID uuid.UUID `json:"blocked_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	block, err := h.blockSvc.BlockUser(userID, req.BlockedID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"block": block})
}

// Unblock 取消拉黑
func (h *BlockHandler) Unblock(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		BlockedID uuid.UUID `json:"blocked_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.blockSvc.UnblockUser(userID, req.BlockedID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "user unblocked", nil)
}

// GetBlockedUsers 拉黑列表
func (h *BlockHandler) GetBlockedUsers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	profiles, err := h.blockSvc.GetBlockedUsers(userID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"blocked_users": profiles})
}
