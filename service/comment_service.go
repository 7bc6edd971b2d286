package service

import (
	"errors"
	"fmt"

	"wegram_server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentService struct {
	db       *gorm.DB
	notifSvc *NotificationService
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// SetNotificationService 注入通知服务（评论/点赞时尽力通知作者）
func (s *CommentService) SetNotificationService(notifSvc *NotificationService) {
	s.notifSvc = notifSvc
}

// CreateComment 发评论：长度上限 280（含），帖子评论数同事务重算
func (s *CommentService) CreateComment(userID, postID uuid.UUID, content string) (*model.Comment, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(content)) > model.MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	var post model.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to query post: %w", err)
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return syncPostEngagement(tx, postID)
	})
	if err != nil {
		return nil, err
	}

	// 尽力通知帖子作者
	if s.notifSvc != nil {
		var actor model.Profile
		if err := s.db.First(&actor, "id = ?", userID).Error; err == nil {
			s.notifSvc.Notify(post.UserID, &userID, model.NotificationComment,
				fmt.Sprintf("%s commented on your post", actor.Username), &postID)
		}
	}

	return comment, nil
}

// GetComments 获取帖子的评论，过滤掉与 viewer 任一方向互相拉黑的作者
func (s *CommentService) GetComments(postID, viewerID uuid.UUID) ([]model.CommentWithAuthor, error) {
	query := s.db.Table("comments c").
		Select("c.*, a.username AS author_username, a.display_name AS author_name, a.avatar_url AS author_avatar").
		Joins("INNER JOIN profiles a ON a.id = c.user_id").
		Where("c.post_id = ?", postID)

	if viewerID != uuid.Nil {
		query = query.Where(
			"c.user_id NOT IN (SELECT blocked_id FROM blocked_users WHERE blocker_id = ?)", viewerID).
			Where("c.user_id NOT IN (SELECT blocker_id FROM blocked_users WHERE blocked_id = ?)", viewerID)
	}

	var comments []model.CommentWithAuthor
	if err := query.Order("c.created_at ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}

	return comments, nil
}

// ToggleLike 评论点赞切换，返回切换后的状态
func (s *CommentService) ToggleLike(userID, commentID uuid.UUID) (bool, error) {
	var comment model.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCommentNotFound
		}
		return false, fmt.Errorf("failed to query comment: %w", err)
	}

	var liked bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&model.CommentLike{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete like edge: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			like := &model.CommentLike{CommentID: commentID, UserID: userID}
			if err := tx.Create(like).Error; err != nil {
				return fmt.Errorf("failed to create like edge: %w", err)
			}
			liked = true
		}

		return syncCommentLikes(tx, commentID)
	})
	if err != nil {
		return false, err
	}

	if liked && s.notifSvc != nil {
		var actor model.Profile
		if err := s.db.First(&actor, "id = ?", userID).Error; err == nil {
			s.notifSvc.Notify(comment.UserID, &userID, model.NotificationLike,
				fmt.Sprintf("%s liked your comment", actor.Username), &comment.PostID)
		}
	}

	return liked, nil
}

// DeleteComment 删评论：仅作者本人，帖子评论数同事务重算
func (s *CommentService) DeleteComment(userID, commentID uuid.UUID) error {
	var comment model.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to query comment: %w", err)
	}
	if comment.UserID != userID {
		return ErrNotOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", commentID).Delete(&model.CommentLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete comment likes: %w", err)
		}
		if err := tx.Delete(&model.Comment{}, "id = ?", commentID).Error; err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		return syncPostEngagement(tx, comment.PostID)
	})
}
