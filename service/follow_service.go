package service

import (
	"errors"
	"fmt"

	"wegram_server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowService struct {
	db       *gorm.DB
	notifSvc *NotificationService
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// SetNotificationService 注入通知服务（关注成功后尽力通知被关注者）
func (s *FollowService) SetNotificationService(notifSvc *NotificationService) {
	s.notifSvc = notifSvc
}

// Follow 关注用户
// 严格创建语义：自关注和重复关注都是显式错误，不做静默成功
func (s *FollowService) Follow(followerID, followingID uuid.UUID) (*model.Follow, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}

	var target model.Profile
	if err := s.db.First(&target, "id = ?", followingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to check target profile: %w", err)
	}

	// 存在性预检只是优化，真正的防重是唯一索引
	var count int64
	err := s.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check follow edge: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyFollowing
	}

	follow := &model.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(follow).Error; err != nil {
			return fmt.Errorf("failed to create follow edge: %w", err)
		}
		return syncFollowCounters(tx, followerID, followingID)
	})
	if err != nil {
		return nil, err
	}

	// 尽力通知被关注者
	if s.notifSvc != nil {
		var follower model.Profile
		if err := s.db.First(&follower, "id = ?", followerID).Error; err == nil {
			s.notifSvc.Notify(followingID, &followerID, model.NotificationFollow,
				fmt.Sprintf("%s started following you", follower.Username), nil)
		}
	}

	return follow, nil
}

// Unfollow 取消关注
func (s *FollowService) Unfollow(followerID, followingID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&model.Follow{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete follow edge: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFollowing
		}
		return syncFollowCounters(tx, followerID, followingID)
	})
}

// IsFollowing 查询关注状态
func (s *FollowService) IsFollowing(followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowers 获取粉丝列表
func (s *FollowService) GetFollowers(profileID uuid.UUID, limit, offset int) ([]model.PublicProfile, error) {
	var profiles []model.PublicProfile
	err := s.db.Table("profiles p").
		Select("p.id, p.username, p.display_name, p.avatar_url, p.verification_tier, p.followers_count, p.following_count, p.posts_count").
		Joins("INNER JOIN follows f ON f.follower_id = p.id").
		Where("f.following_id = ?", profileID).
		Order("f.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error

	if err != nil {
		return nil, fmt.Errorf("failed to query followers: %w", err)
	}

	return profiles, nil
}

// GetFollowing 获取关注列表
func (s *FollowService) GetFollowing(profileID uuid.UUID, limit, offset int) ([]model.PublicProfile, error) {
	var profiles []model.PublicProfile
	err := s.db.Table("profiles p").
		Select("p.id, p.username, p.display_name, p.avatar_url, p.verification_tier, p.followers_count, p.following_count, p.posts_count").
		Joins("INNER JOIN follows f ON f.following_id = p.id").
		Where("f.follower_id = ?", profileID).
		Order("f.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error

	if err != nil {
		return nil, fmt.Errorf("failed to query following: %w", err)
	}

	return profiles, nil
}
