package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment 评论表
type Comment struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PostID     uuid.UUID `json:"post_id" gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Content    string    `json:"content" gorm:"type:varchar(280);not null"`
	LikesCount int       `json:"likes_count" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CommentLike 评论点赞边：唯一 (comment, user)，切换语义
type CommentLike struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CommentID uuid.UUID `json:"comment_id" gorm:"type:uuid;not null;uniqueIndex:idx_comment_like_pair;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_comment_like_pair"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}

func (l *CommentLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// CommentWithAuthor 评论详情（含作者信息）
type CommentWithAuthor struct {
	Comment
	AuthorUsername string  `json:"author_username"`
	AuthorName     string  `json:"author_name"`
	AuthorAvatar   *string `json:"author_avatar,omitempty"`
}
