package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wegram_server/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 邮箱验证令牌：Redis 单次使用 + 24 小时过期
const (
	emailTokenPrefix = "emailverify:"
	emailTokenTTL    = 24 * time.Hour
)

type AuthService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewAuthService(db *gorm.DB, rdb *redis.Client) *AuthService {
	return &AuthService{db: db, rdb: rdb}
}

// Signup 注册：创建用户资料（计数全部归零），签发邮箱验证令牌
// 返回的 token 由调用方通过邮件渠道投递，这里不负责发送
func (s *AuthService) Signup(username, displayName, email, password string) (*model.Profile, string, error) {
	var count int64
	if err := s.db.Model(&model.Profile{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, "", ErrUsernameTaken
	}

	if err := s.db.Model(&model.Profile{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hash)
	if displayName == "" {
		displayName = username
	}
	profile := &model.Profile{
		Username:         username,
		DisplayName:      displayName,
		Email:            &email,
		PasswordHash:     &hashStr,
		VerificationTier: model.TierNone,
	}

	if err := s.db.Create(profile).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create profile: %w", err)
	}

	token := s.issueEmailToken(profile.ID)
	return profile, token, nil
}

// Login 登录：邮箱 + 密码
func (s *AuthService) Login(email, password string) (*model.Profile, error) {
	var profile model.Profile
	if err := s.db.First(&profile, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	if profile.PasswordHash == nil {
		// OAuth 注册的用户没有密码凭证
		return nil, ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	return &profile, nil
}

// VerifyEmail 消费验证令牌：GETDEL 保证单次使用，过期由 TTL 兜底
func (s *AuthService) VerifyEmail(token string) error {
	if s.rdb == nil {
		return ErrTokenNotFound
	}

	ctx := context.Background()
	val, err := s.rdb.GetDel(ctx, emailTokenPrefix+token).Result()
	if err == redis.Nil {
		return ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read verification token: %w", err)
	}

	profileID, err := uuid.Parse(val)
	if err != nil {
		return ErrTokenNotFound
	}

	result := s.db.Model(&model.Profile{}).Where("id = ?", profileID).Update("email_verified", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark email verified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// issueEmailToken 签发验证令牌；Redis 不可用时返回空串（验证功能降级，不阻塞注册）
func (s *AuthService) issueEmailToken(profileID uuid.UUID) string {
	if s.rdb == nil {
		return ""
	}

	token := uuid.NewString()
	ctx := context.Background()
	if err := s.rdb.Set(ctx, emailTokenPrefix+token, profileID.String(), emailTokenTTL).Err(); err != nil {
		return ""
	}
	return token
}
