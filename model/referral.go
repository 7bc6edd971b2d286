package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 推荐等级：按推荐人创建该条记录之前的累计推荐数分档
// 档位和奖励在创建时快照，之后不会随推荐数增长重算
const (
	ReferralTierBronze = "bronze" // <5
	ReferralTierSilver = "silver" // 5-19
	ReferralTierGold   = "gold"   // >=20

	ReferralRewardBronze = 10
	ReferralRewardSilver = 25
	ReferralRewardGold   = 50
)

// Referral 推荐记录：每个被推荐用户最多被推荐一次
type Referral struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReferrerID   uuid.UUID `json:"referrer_id" gorm:"type:uuid;not null;index"`
	ReferredID   uuid.UUID `json:"referred_id" gorm:"type:uuid;not null;uniqueIndex"`
	Tier         string    `json:"tier" gorm:"type:varchar(20);not null"`
	RewardAmount int       `json:"reward_amount" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Referral) TableName() string {
	return "referrals"
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReferralStats 推荐统计（/referrals/stats 返回）
type ReferralStats struct {
	TotalReferrals int            `json:"total_referrals"`
	TotalRewards   int            `json:"total_rewards"`
	ByTier         map[string]int `json:"by_tier"`
}
