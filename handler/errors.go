package handler

import (
	"errors"

	"wegram_server/service"
	"wegram_server/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError 把业务错误映射到 HTTP 状态码
// 校验类 400，凭证类 401，拉黑/越权 403，缺失 404，重复 409，其余 500
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrSelfBlock),
		errors.Is(err, service.ErrSelfMessage),
		errors.Is(err, service.ErrSelfReferral),
		errors.Is(err, service.ErrPostTooLong),
		errors.Is(err, service.ErrCommentTooLong),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrUnknownAction),
		errors.Is(err, service.ErrUnknownFeedType):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrBadCredentials):
		utils.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrBlocked),
		errors.Is(err, service.ErrNotOwner):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrNotFollowing),
		errors.Is(err, service.ErrNotBlocked),
		errors.Is(err, service.ErrTokenNotFound),
		errors.Is(err, service.ErrWalletNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrAlreadyFollowing),
		errors.Is(err, service.ErrAlreadyBlocked),
		errors.Is(err, service.ErrAlreadyReferred),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrWalletExists):
		utils.Conflict(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
