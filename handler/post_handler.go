package handler

import (
	"wegram_server/middleware"
	"wegram_server/service"
	"wegram_server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostHandler struct {
	postSvc   *service.PostService
	uploadSvc *service.UploadService
}

func NewPostHandler(postSvc *service.PostService, uploadSvc *service.UploadService) *PostHandler {
	return &PostHandler{postSvc: postSvc, uploadSvc: uploadSvc}
}

// Create 发帖
func (h *PostHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		Content  string  `json:"content" binding:"required"`
		ImageURL *string `json:"image_url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	post, err := h.postSvc.CreatePost(userID, req.Content, req.ImageURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"post": post})
}

// GetFeed 拉取 Feed
// ?feed_type=following|trending|all 或 ?user_posts=<id>
func (h *PostHandler) GetFeed(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	limit, offset := parsePagination(c, 20)

	if userPosts := c.Query("user_posts"); userPosts != "" {
		targetID, err := uuid.Parse(userPosts)
		if err != nil {
			utils.BadRequest(c, "invalid user_posts id")
			return
		}
		posts, err := h.postSvc.GetUserPosts(targetID, userID, limit, offset)
		if err != nil {
			utils.InternalServerError(c, err.Error())
			return
		}
		utils.SuccessResponse(c, gin.H{"posts": posts})
		return
	}

	feedType := c.DefaultQuery("feed_type", service.FeedAll)
	posts, err := h.postSvc.GetFeed(feedType, userID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"posts": posts})
}

// GetPost 查看单帖
func (h *PostHandler) GetPost(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid post id")
		return
	}

	post, err := h.postSvc.GetPost(postID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"post": post})
}

// Action 帖子互动：like（切换）| gift | share（自增）
func (h *PostHandler) Action(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		PostID uuid.UUID `json:"post_id" binding:"required"`
		Action string    `json:"action" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	switch req.Action {
	case "like":
		liked, err := h.postSvc.ToggleLike(userID, req.PostID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"liked": liked})
	case "gift":
		if err := h.postSvc.GiftPost(req.PostID); err != nil {
			respondServiceError(c, err)
			return
		}
		utils.SuccessWithMessage(c, "gift recorded", nil)
	case "share":
		if err := h.postSvc.SharePost(req.PostID); err != nil {
			respondServiceError(c, err)
			return
		}
		utils.SuccessWithMessage(c, "share recorded", nil)
	default:
		respondServiceError(c, service.ErrUnknownAction)
	}
}

// View 浏览事件上报（不去重）
func (h *PostHandler) View(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid post id")
		return
	}

	if err := h.postSvc.RecordView(postID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "view recorded", nil)
}

// Delete 删帖（仅作者）
func (h *PostHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid post id")
		return
	}

	if err := h.postSvc.DeletePost(userID, postID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "post deleted", nil)
}

// UploadURL 生成帖子图片的预签名上传 URL
func (h *PostHandler) UploadURL(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	if h.uploadSvc == nil {
		utils.InternalServerError(c, "upload service not configured")
		return
	}

	var req struct {
		FileName string `json:"file_name" binding:"required"`
		FileType string `json:"file_type" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	uploadURL, key, err := h.uploadSvc.GenerateUploadURL(req.FileName, req.FileType)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"upload_url": uploadURL,
		"key":        key,
	})
}
