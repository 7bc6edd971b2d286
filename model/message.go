package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message 私信表：发送者/接收者直连，read_at 为空表示未读
type Message struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID   uuid.UUID  `json:"sender_id" gorm:"type:uuid;not null;index"`
	ReceiverID uuid.UUID  `json:"receiver_id" gorm:"type:uuid;not null;index"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Conversation 会话列表项：按对端聚合出的最新一条私信 + 未读数
// 不落库，由 messages 表聚合得出
type Conversation struct {
	CounterpartID     uuid.UUID `json:"counterpart_id"`
	CounterpartName   string    `json:"counterpart_name"`
	CounterpartAvatar *string   `json:"counterpart_avatar,omitempty"`
	LastMessage       string    `json:"last_message"`
	LastMessageAt     time.Time `json:"last_message_at"`
	LastSenderID      uuid.UUID `json:"last_sender_id"`
	UnreadCount       int       `json:"unread_count"`
}
