package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 通知类型
const (
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationMessage = "message"
	NotificationSystem  = "system"
)

// Notification 通知表
// actor == recipient 的通知永远不会写入（自操作抑制）
type Notification struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty" gorm:"type:uuid"`
	Type      string     `json:"type" gorm:"type:varchar(30);not null"`
	Message   string     `json:"message" gorm:"type:varchar(500);not null"`
	PostID    *uuid.UUID `json:"post_id,omitempty" gorm:"type:uuid"`
	IsRead    bool       `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
