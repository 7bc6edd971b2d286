package service

import (
	"fmt"
	"log"

	"wegram_server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService struct {
	db          *gorm.DB
	hubNotifier HubNotifier
}

// HubNotifier 接口用于发送WebSocket通知
type HubNotifier interface {
	SendNotification(userID uuid.UUID, notification interface{}) bool
	IsUserOnline(userID uuid.UUID) bool
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// SetHubNotifier 设置Hub通知器（用于依赖注入）
func (s *NotificationService) SetHubNotifier(notifier HubNotifier) {
	s.hubNotifier = notifier
}

// CreateNotification 创建通知
// actor == recipient 时直接跳过（自操作抑制），返回 (nil, nil)
func (s *NotificationService) CreateNotification(userID uuid.UUID, actorID *uuid.UUID, notifType, message string, postID *uuid.UUID) (*model.Notification, error) {
	if actorID != nil && *actorID == userID {
		return nil, nil
	}

	notification := &model.Notification{
		UserID:  userID,
		ActorID: actorID,
		Type:    notifType,
		Message: message,
		PostID:  postID,
		IsRead:  false,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	// 只推送给在线用户
	if s.hubNotifier != nil && s.hubNotifier.IsUserOnline(userID) {
		s.hubNotifier.SendNotification(userID, notification)
	}

	return notification, nil
}

// Notify 尽力而为地发通知：失败只记日志，绝不影响触发它的主操作
func (s *NotificationService) Notify(userID uuid.UUID, actorID *uuid.UUID, notifType, message string, postID *uuid.UUID) {
	if _, err := s.CreateNotification(userID, actorID, notifType, message, postID); err != nil {
		log.Printf("[WARN] Failed to create %s notification for %s: %v", notifType, userID, err)
	}
}

// GetNotifications 获取最近的通知（最多 50 条）
func (s *NotificationService) GetNotifications(userID uuid.UUID) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error

	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead 标记已读：ids 非空标记指定的若干条，all 为 true 标记全部
func (s *NotificationService) MarkRead(userID uuid.UUID, ids []uuid.UUID, all bool) (int64, error) {
	query := s.db.Model(&model.Notification{}).Where("user_id = ? AND is_read = ?", userID, false)
	if !all {
		if len(ids) == 0 {
			return 0, nil
		}
		query = query.Where("id IN ?", ids)
	}

	result := query.Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}

	return result.RowsAffected, nil
}
