package service

import (
	"errors"
	"fmt"

	"wegram_server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile 按 ID 获取用户资料
func (s *ProfileService) GetProfile(id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := s.db.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &profile, nil
}

// ProfileUpdate 可更新的资料字段（nil 表示不改）
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// UpdateProfile 更新本人资料
func (s *ProfileService) UpdateProfile(id uuid.UUID, update ProfileUpdate) (*model.Profile, error) {
	updates := map[string]interface{}{}
	if update.DisplayName != nil {
		updates["display_name"] = *update.DisplayName
	}
	if update.Bio != nil {
		updates["bio"] = *update.Bio
	}
	if update.AvatarURL != nil {
		updates["avatar_url"] = *update.AvatarURL
	}

	if len(updates) > 0 {
		result := s.db.Model(&model.Profile{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update profile: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrProfileNotFound
		}
	}

	return s.GetProfile(id)
}
