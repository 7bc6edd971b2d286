package handler

import (
	"wegram_server/middleware"
	"wegram_server/service"
	"wegram_server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentSvc *service.CommentService
}

func NewCommentHandler(commentSvc *service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

// List 获取帖子的评论（过滤互相拉黑的作者）
func (h *CommentHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	postID, err := uuid.Parse(c.Query("post_id"))
	if err != nil {
		utils.BadRequest(c, "invalid post_id")
		return
	}

	comments, err := h.commentSvc.GetComments(postID, userID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"comments": comments})
}

// Create 发评论（尽力通知帖子作者）
func (h *CommentHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		PostID  uuid.UUID `json:"post_id" binding:"required"`
		Content string    `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentSvc.CreateComment(userID, req.PostID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"comment": comment})
}

// Action 评论互动：目前只有 like（切换）
func (h *CommentHandler) Action(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		CommentID uuid.UUID `json:"comment_id" binding:"required"`
		Action    string    `json:"action" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if req.Action != "like" {
		respondServiceError(c, service.ErrUnknownAction)
		return
	}

	liked, err := h.commentSvc.ToggleLike(userID, req.CommentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"liked": liked})
}

// Delete 删评论（仅作者）
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid comment id")
		return
	}

	if err := h.commentSvc.DeleteComment(userID, commentID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "comment deleted", nil)
}
