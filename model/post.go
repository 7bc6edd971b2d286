package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 内容长度上限（含边界：恰好等于上限的内容合法）
const (
	MaxPostLength    = 500
	MaxCommentLength = 280
)

// Post 帖子表
type Post struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Content  string    `json:"content" gorm:"type:varchar(500);not null"`
	ImageURL *string   `json:"image_url,omitempty" gorm:"type:text"`

	LikesCount    int `json:"likes_count" gorm:"default:0"`
	CommentsCount int `json:"comments_count" gorm:"default:0"`
	SharesCount   int `json:"shares_count" gorm:"default:0"`
	GiftsCount    int `json:"gifts_count" gorm:"default:0"`
	ViewsCount    int `json:"views_count" gorm:"default:0"` // 原始浏览事件数，不按用户去重

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostLike 帖子点赞边：唯一 (post, user)，点赞是切换语义
type PostLike struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;not null;uniqueIndex:idx_post_like_pair;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_post_like_pair"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// PostWithAuthor 帖子详情（含作者信息）
type PostWithAuthor struct {
	Post
	AuthorUsername string  `json:"author_username"`
	AuthorName     string  `json:"author_name"`
	AuthorAvatar   *string `json:"author_avatar,omitempty"`
	AuthorTier     string  `json:"author_tier"`
	IsLiked        bool    `json:"is_liked" gorm:"-"`
}
