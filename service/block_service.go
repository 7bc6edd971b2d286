package service

import (
	"fmt"

	"wegram_server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlockService struct {
	db *gorm.DB
}

func NewBlockService(db *gorm.DB) *BlockService {
	return &BlockService{db: db}
}

// BlockUser 拉黑用户
// 级联效果：同一事务内删除双向的关注边（可能是 0、1 或 2 条），
// 然后对双方做权威重算，而不是按删了几条边做减法
func (s *BlockService) BlockUser(blockerID, blockedID uuid.UUID) (*model.Block, error) {
	if blockerID == blockedID {
		return nil, ErrSelfBlock
	}

	var count int64
	err := s.db.Model(&model.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check block edge: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyBlocked
	}

	block := &model.Block{
		BlockerID: blockerID,
		BlockedID: blockedID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(block).Error; err != nil {
			return fmt.Errorf("failed to create block edge: %w", err)
		}

		// 双向取关
		if err := tx.Where(
			"(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)",
			blockerID, blockedID, blockedID, blockerID,
		).Delete(&model.Follow{}).Error; err != nil {
			return fmt.Errorf("failed to remove follow edges: %w", err)
		}

		return syncFollowCounters(tx, blockerID, blockedID)
	})
	if err != nil {
		return nil, err
	}

	return block, nil
}

// UnblockUser 取消拉黑（不恢复关注关系，计数无副作用）
func (s *BlockService) UnblockUser(blockerID, blockedID uuid.UUID) error {
	result := s.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.Block{})

	if result.Error != nil {
		return fmt.Errorf("failed to unblock user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotBlocked
	}

	return nil
}

// GetBlockedUsers 获取拉黑列表
func (s *BlockService) GetBlockedUsers(blockerID uuid.UUID) ([]model.PublicProfile, error) {
	var profiles []model.PublicProfile
	err := s.db.Table("profiles p").
		Select("p.id, p.username, p.display_name, p.avatar_url, p.verification_tier, p.followers_count, p.following_count, p.posts_count").
		Joins("INNER JOIN blocked_users b ON b.blocked_id = p.id").
		Where("b.blocker_id = ?", blockerID).
		Order("b.created_at DESC").
		Find(&profiles).Error

	if err != nil {
		return nil, fmt.Errorf("failed to query blocked users: %w", err)
	}

	return profiles, nil
}

// IsBlockedEither 检查两个用户之间任一方向是否存在拉黑
func (s *BlockService) IsBlockedEither(userA, userB uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&model.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}
