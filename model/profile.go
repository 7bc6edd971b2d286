package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 认证等级
const (
	TierNone     = "none"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// Profile 用户资料表
// 计数字段是冗余缓存，必须始终等于对应关系表的真实基数（见 service/counters.go）
type Profile struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"`
	DisplayName  string    `json:"display_name" gorm:"type:varchar(100)"`
	Email        *string   `json:"email,omitempty" gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash *string   `json:"-" gorm:"type:varchar(100)"`
	EmailVerified bool     `json:"email_verified" gorm:"default:false"`

	Bio       *string `json:"bio,omitempty" gorm:"type:varchar(200)"`
	AvatarURL *string `json:"avatar_url,omitempty" gorm:"type:text"`

	FollowersCount int `json:"followers_count" gorm:"default:0"`
	FollowingCount int `json:"following_count" gorm:"default:0"`
	PostsCount     int `json:"posts_count" gorm:"default:0"`

	VerificationTier string `json:"verification_tier" gorm:"type:varchar(20);default:none"` // 'none' | 'gold' | 'platinum'

	// 钱包材料：每个用户最多一个钱包，私钥和助记词加密存储且永不返回
	WalletPublicKey     *string `json:"wallet_public_key,omitempty" gorm:"type:varchar(100)"`
	WalletPrivateKeyEnc *string `json:"-" gorm:"type:text"`
	WalletMnemonicEnc   *string `json:"-" gorm:"type:text"`

	TotalReferrals  int `json:"total_referrals" gorm:"default:0"`
	ReferralRewards int `json:"referral_rewards" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PublicProfile 对外展示的用户信息（列表/嵌套场景）
type PublicProfile struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	DisplayName      string    `json:"display_name"`
	AvatarURL        *string   `json:"avatar_url,omitempty"`
	VerificationTier string    `json:"verification_tier"`
	FollowersCount   int       `json:"followers_count"`
	FollowingCount   int       `json:"following_count"`
	PostsCount       int       `json:"posts_count"`
}

// Public 裁剪出公开视图
func (p *Profile) Public() PublicProfile {
	return PublicProfile{
		ID:               p.ID,
		Username:         p.Username,
		DisplayName:      p.DisplayName,
		AvatarURL:        p.AvatarURL,
		VerificationTier: p.VerificationTier,
		FollowersCount:   p.FollowersCount,
		FollowingCount:   p.FollowingCount,
		PostsCount:       p.PostsCount,
	}
}
