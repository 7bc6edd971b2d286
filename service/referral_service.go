package service

import (
	"errors"
	"fmt"

	"wegram_server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferralService struct {
	db *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{db: db}
}

// classifyReferralTier 按推荐人当前累计推荐数分档
// 传入的是本条记录创建之前的计数：第 5 条推荐（此前 4 条）仍是 Bronze
func classifyReferralTier(priorReferrals int) (string, int) {
	switch {
	case priorReferrals >= 20:
		return model.ReferralTierGold, model.ReferralRewardGold
	case priorReferrals >= 5:
		return model.ReferralTierSilver, model.ReferralRewardSilver
	default:
		return model.ReferralTierBronze, model.ReferralRewardBronze
	}
}

// CreateReferral 创建推荐记录
// 档位/奖励是创建时快照，永不回溯重算；每个被推荐用户只能被推荐一次
func (s *ReferralService) CreateReferral(referrerID, referredID uuid.UUID) (*model.Referral, error) {
	if referrerID == referredID {
		return nil, ErrSelfReferral
	}

	var referred model.Profile
	if err := s.db.First(&referred, "id = ?", referredID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to query referred profile: %w", err)
	}

	var count int64
	if err := s.db.Model(&model.Referral{}).Where("referred_id = ?", referredID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check referral record: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyReferred
	}

	var referral *model.Referral
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 档位快照取自事务内的当前真实计数
		var prior int64
		if err := tx.Model(&model.Referral{}).Where("referrer_id = ?", referrerID).Count(&prior).Error; err != nil {
			return fmt.Errorf("failed to count prior referrals: %w", err)
		}

		tier, reward := classifyReferralTier(int(prior))
		referral = &model.Referral{
			ReferrerID:   referrerID,
			ReferredID:   referredID,
			Tier:         tier,
			RewardAmount: reward,
		}

		if err := tx.Create(referral).Error; err != nil {
			return fmt.Errorf("failed to create referral: %w", err)
		}

		return syncReferralTotals(tx, referrerID)
	})
	if err != nil {
		return nil, err
	}

	return referral, nil
}

// GetStats 推荐统计：总数、总奖励、各档位条数
func (s *ReferralService) GetStats(referrerID uuid.UUID) (*model.ReferralStats, error) {
	var referrals []model.Referral
	if err := s.db.Where("referrer_id = ?", referrerID).Find(&referrals).Error; err != nil {
		return nil, fmt.Errorf("failed to query referrals: %w", err)
	}

	stats := &model.ReferralStats{
		ByTier: map[string]int{},
	}
	for _, r := range referrals {
		stats.TotalReferrals++
		stats.TotalRewards += r.RewardAmount
		stats.ByTier[r.Tier]++
	}

	return stats, nil
}

// GetReferrals 推荐记录列表（新到旧）
func (s *ReferralService) GetReferrals(referrerID uuid.UUID) ([]model.Referral, error) {
	var referrals []model.Referral
	err := s.db.Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&referrals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query referrals: %w", err)
	}

	return referrals, nil
}
