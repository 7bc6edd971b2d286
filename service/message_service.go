package service

import (
	"errors"
	"fmt"
	"time"

	"wegram_server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageService struct {
	db       *gorm.DB
	blockSvc *BlockService
	notifSvc *NotificationService
	pusher   MessagePusher
}

// MessagePusher 接口用于向在线用户实时推送新私信
type MessagePusher interface {
	SendMessage(userID uuid.UUID, message interface{}) bool
	IsUserOnline(userID uuid.UUID) bool
}

func NewMessageService(db *gorm.DB, blockSvc *BlockService) *MessageService {
	return &MessageService{db: db, blockSvc: blockSvc}
}

// SetNotificationService 注入通知服务
func (s *MessageService) SetNotificationService(notifSvc *NotificationService) {
	s.notifSvc = notifSvc
}

// SetPusher 注入 WebSocket 推送器
func (s *MessageService) SetPusher(pusher MessagePusher) {
	s.pusher = pusher
}

// SendMessage 发私信
// 任一方向存在拉黑关系时拒绝发送
func (s *MessageService) SendMessage(senderID, receiverID uuid.UUID, content string) (*model.Message, error) {
	if senderID == receiverID {
		return nil, ErrSelfMessage
	}
	if content == "" {
		return nil, ErrEmptyContent
	}

	var receiver model.Profile
	if err := s.db.First(&receiver, "id = ?", receiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to query receiver: %w", err)
	}

	blocked, err := s.blockSvc.IsBlockedEither(senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check block state: %w", err)
	}
	if blocked {
		return nil, ErrBlocked
	}

	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}

	if err := s.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	// 在线则实时推送，不在线留未读
	if s.pusher != nil && s.pusher.IsUserOnline(receiverID) {
		s.pusher.SendMessage(receiverID, message)
	}

	if s.notifSvc != nil {
		var sender model.Profile
		if err := s.db.First(&sender, "id = ?", senderID).Error; err == nil {
			s.notifSvc.Notify(receiverID, &senderID, model.NotificationMessage,
				fmt.Sprintf("%s sent you a message", sender.Username), nil)
		}
	}

	return message, nil
}

// GetConversations 会话列表：按对端聚合，每个对端取最新一条私信和未读数
func (s *MessageService) GetConversations(userID uuid.UUID) ([]model.Conversation, error) {
	// 1. 找出所有对端和最近一次往来时间
	type counterpartRow struct {
		CounterpartID uuid.UUID `gorm:"column:counterpart_id"`
		LastAt        time.Time `gorm:"column:last_at"`
	}

	var rows []counterpartRow
	err := s.db.Raw(`
		SELECT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS counterpart_id,
		       MAX(created_at) AS last_at
		FROM messages
		WHERE sender_id = ? OR receiver_id = ?
		GROUP BY counterpart_id
		ORDER BY last_at DESC
		LIMIT 50`, userID, userID, userID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query counterparts: %w", err)
	}

	// 2. 对每个对端补齐最新消息、未读数和资料
	conversations := make([]model.Conversation, 0, len(rows))
	for _, row := range rows {
		var last model.Message
		err := s.db.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, row.CounterpartID, row.CounterpartID, userID).
			Order("created_at DESC").
			First(&last).Error
		if err != nil {
			return nil, fmt.Errorf("failed to query last message: %w", err)
		}

		var unread int64
		err = s.db.Model(&model.Message{}).
			Where("sender_id = ? AND receiver_id = ? AND read_at IS NULL", row.CounterpartID, userID).
			Count(&unread).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count unread: %w", err)
		}

		conv := model.Conversation{
			CounterpartID: row.CounterpartID,
			LastMessage:   last.Content,
			LastMessageAt: last.CreatedAt,
			LastSenderID:  last.SenderID,
			UnreadCount:   int(unread),
		}

		var counterpart model.Profile
		if err := s.db.First(&counterpart, "id = ?", row.CounterpartID).Error; err == nil {
			conv.CounterpartName = counterpart.Username
			conv.CounterpartAvatar = counterpart.AvatarURL
		}

		conversations = append(conversations, conv)
	}

	return conversations, nil
}

// GetThread 获取与某个用户的完整往来记录（旧到新）
func (s *MessageService) GetThread(userID, otherID uuid.UUID, limit, offset int) ([]model.Message, error) {
	var messages []model.Message
	err := s.db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, otherID, otherID, userID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query thread: %w", err)
	}

	return messages, nil
}

// MarkRead 把来自某个发送者的所有未读私信标记已读，返回标记条数
func (s *MessageService) MarkRead(userID, senderID uuid.UUID) (int64, error) {
	now := time.Now()
	result := s.db.Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read_at IS NULL", senderID, userID).
		Update("read_at", &now)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", result.Error)
	}

	return result.RowsAffected, nil
}
