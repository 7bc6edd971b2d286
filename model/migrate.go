package model

import "gorm.io/gorm"

// Migrate 建表/补索引（幂等）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Profile{},
		&Follow{},
		&Block{},
		&Post{},
		&PostLike{},
		&Comment{},
		&CommentLike{},
		&Message{},
		&Notification{},
		&Referral{},
	)
}
