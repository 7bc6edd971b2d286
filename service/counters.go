package service

import (
	"fmt"

	"wegram_server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 计数维护约定：凡是有关系表/子表背书的缓存计数（followers_count、
// following_count、posts_count、likes_count、comments_count、total_referrals），
// 一律在修改边/子行的同一事务里用 COUNT(*) 子查询权威重算，不做增量加减。
// 没有背书表的纯事件计数（views/shares/gifts）用单条原子 UPDATE 自增。

// syncFollowCounters 重算给定用户的关注/粉丝计数
func syncFollowCounters(tx *gorm.DB, profileIDs ...uuid.UUID) error {
	for _, id := range profileIDs {
		err := tx.Model(&model.Profile{}).Where("id = ?", id).Updates(map[string]interface{}{
			"followers_count": gorm.Expr("(SELECT COUNT(*) FROM follows WHERE following_id = ?)", id),
			"following_count": gorm.Expr("(SELECT COUNT(*) FROM follows WHERE follower_id = ?)", id),
		}).Error
		if err != nil {
			return fmt.Errorf("failed to sync follow counters: %w", err)
		}
	}
	return nil
}

// syncPostsCount 重算用户的发帖计数
func syncPostsCount(tx *gorm.DB, profileID uuid.UUID) error {
	err := tx.Model(&model.Profile{}).Where("id = ?", profileID).
		Update("posts_count", gorm.Expr("(SELECT COUNT(*) FROM posts WHERE user_id = ?)", profileID)).Error
	if err != nil {
		return fmt.Errorf("failed to sync posts count: %w", err)
	}
	return nil
}

// syncPostEngagement 重算帖子的点赞/评论计数
func syncPostEngagement(tx *gorm.DB, postID uuid.UUID) error {
	err := tx.Model(&model.Post{}).Where("id = ?", postID).Updates(map[string]interface{}{
		"likes_count":    gorm.Expr("(SELECT COUNT(*) FROM post_likes WHERE post_id = ?)", postID),
		"comments_count": gorm.Expr("(SELECT COUNT(*) FROM comments WHERE post_id = ?)", postID),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to sync post engagement: %w", err)
	}
	return nil
}

// syncCommentLikes 重算评论的点赞计数
func syncCommentLikes(tx *gorm.DB, commentID uuid.UUID) error {
	err := tx.Model(&model.Comment{}).Where("id = ?", commentID).
		Update("likes_count", gorm.Expr("(SELECT COUNT(*) FROM comment_likes WHERE comment_id = ?)", commentID)).Error
	if err != nil {
		return fmt.Errorf("failed to sync comment likes: %w", err)
	}
	return nil
}

// syncReferralTotals 重算推荐人的累计推荐数和累计奖励
func syncReferralTotals(tx *gorm.DB, referrerID uuid.UUID) error {
	err := tx.Model(&model.Profile{}).Where("id = ?", referrerID).Updates(map[string]interface{}{
		"total_referrals":  gorm.Expr("(SELECT COUNT(*) FROM referrals WHERE referrer_id = ?)", referrerID),
		"referral_rewards": gorm.Expr("(SELECT COALESCE(SUM(reward_amount), 0) FROM referrals WHERE referrer_id = ?)", referrerID),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to sync referral totals: %w", err)
	}
	return nil
}
