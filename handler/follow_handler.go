package handler

import (
	"strconv"

	"wegram_server/middleware"
	"wegram_server/service"
	"wegram_server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FollowHandler struct {
	followSvc *service.FollowService
}

func NewFollowHandler(followSvc *service.FollowService) *FollowHandler {
	return &FollowHandler{followSvc: followSvc}
}

// parsePagination 解析 limit/offset 查询参数
func parsePagination(c *gin.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Follow 关注用户
func (h *FollowHandler) Follow(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		FollowingID uuid.UUID `json:"following_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	follow, err := h.followSvc.Follow(userID, req.FollowingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"follow": follow})
}

// Unfollow 取消关注
func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		FollowingID uuid.UUID `json:"following_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.followSvc.Unfollow(userID, req.FollowingID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "unfollowed", nil)
}

// GetStatus 查询关注状态
func (h *FollowHandler) GetStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	followingID, err := uuid.Parse(c.Query("following_id"))
	if err != nil {
		utils.BadRequest(c, "invalid following_id")
		return
	}

	isFollowing, err := h.followSvc.IsFollowing(userID, followingID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"is_following": isFollowing})
}

// GetFollowers 粉丝列表
func (h *FollowHandler) GetFollowers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid profile id")
		return
	}

	limit, offset := parsePagination(c, 20)
	profiles, err := h.followSvc.GetFollowers(id, limit, offset)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"followers": profiles})
}

// GetFollowing 关注列表
func (h *FollowHandler) GetFollowing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid profile id")
		return
	}

	limit, offset := parsePagination(c, 20)
	profiles, err := h.followSvc.GetFollowing(id, limit, offset)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"following": profiles})
}
