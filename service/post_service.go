package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wegram_server/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const trendingCacheKey = "feed:trending"

// Feed 类型
const (
	FeedFollowing = "following"
	FeedTrending  = "trending"
	FeedAll       = "all"
)

type PostService struct {
	db               *gorm.DB
	rdb              *redis.Client
	notifSvc         *NotificationService
	trendingCacheTTL time.Duration
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db, trendingCacheTTL: 60 * time.Second}
}

func NewPostServiceWithRedis(db *gorm.DB, rdb *redis.Client, trendingCacheTTLSeconds int) *PostService {
	return &PostService{
		db:               db,
		rdb:              rdb,
		trendingCacheTTL: time.Duration(trendingCacheTTLSeconds) * time.Second,
	}
}

// SetNotificationService 注入通知服务（点赞时尽力通知帖子作者）
func (s *PostService) SetNotificationService(notifSvc *NotificationService) {
	s.notifSvc = notifSvc
}

// CreatePost 发帖：长度上限 500（含），计数全部归零，作者发帖数同事务重算
func (s *PostService) CreatePost(userID uuid.UUID, content string, imageURL *string) (*model.Post, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(content)) > model.MaxPostLength {
		return nil, ErrPostTooLong
	}

	post := &model.Post{
		UserID:   userID,
		Content:  content,
		ImageURL: imageURL,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		return syncPostsCount(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTrending()
	return post, nil
}

// DeletePost 删帖：仅作者本人，连同点赞/评论子行一起清理
func (s *PostService) DeletePost(userID, postID uuid.UUID) error {
	var post model.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to query post: %w", err)
	}
	if post.UserID != userID {
		return ErrNotOwner
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id IN (SELECT id FROM comments WHERE post_id = ?)", postID).
			Delete(&model.CommentLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete comment likes: %w", err)
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete post likes: %w", err)
		}
		if err := tx.Delete(&model.Post{}, "id = ?", postID).Error; err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		return syncPostsCount(tx, userID)
	})
	if err != nil {
		return err
	}

	s.invalidateTrending()
	return nil
}

// GetPost 获取单帖（含作者信息和 viewer 的点赞状态）
func (s *PostService) GetPost(postID, viewerID uuid.UUID) (*model.PostWithAuthor, error) {
	var post model.PostWithAuthor
	err := s.postQuery().Where("p.id = ?", postID).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to query post: %w", err)
	}

	if viewerID != uuid.Nil {
		if err := s.fillLiked(viewerID, []*model.PostWithAuthor{&post}); err != nil {
			return nil, err
		}
	}

	return &post, nil
}

// GetFeed 获取 Feed
// feed_type: following（关注流）| trending（热门）| all（全站时间线）
func (s *PostService) GetFeed(feedType string, viewerID uuid.UUID, limit, offset int) ([]model.PostWithAuthor, error) {
	var (
		posts []model.PostWithAuthor
		err   error
	)

	switch feedType {
	case FeedFollowing:
		err = s.postQuery().
			Where("p.user_id IN (SELECT following_id FROM follows WHERE follower_id = ?)", viewerID).
			Order("p.created_at DESC").
			Limit(limit).Offset(offset).
			Find(&posts).Error
	case FeedTrending:
		posts, err = s.getTrending(limit, offset)
	case FeedAll:
		err = s.postQuery().
			Order("p.created_at DESC").
			Limit(limit).Offset(offset).
			Find(&posts).Error
	default:
		return nil, ErrUnknownFeedType
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}

	if viewerID != uuid.Nil {
		refs := make([]*model.PostWithAuthor, len(posts))
		for i := range posts {
			refs[i] = &posts[i]
		}
		if err := s.fillLiked(viewerID, refs); err != nil {
			return nil, err
		}
	}

	return posts, nil
}

// GetUserPosts 获取某个用户的帖子
func (s *PostService) GetUserPosts(userID, viewerID uuid.UUID, limit, offset int) ([]model.PostWithAuthor, error) {
	var posts []model.PostWithAuthor
	err := s.postQuery().
		Where("p.user_id = ?", userID).
		Order("p.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query user posts: %w", err)
	}

	if viewerID != uuid.Nil {
		refs := make([]*model.PostWithAuthor, len(posts))
		for i := range posts {
			refs[i] = &posts[i]
		}
		if err := s.fillLiked(viewerID, refs); err != nil {
			return nil, err
		}
	}

	return posts, nil
}

// ToggleLike 点赞/取消点赞（切换语义，与关注的严格创建语义不同）
// 返回切换后的点赞状态
func (s *PostService) ToggleLike(userID, postID uuid.UUID) (bool, error) {
	var post model.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrPostNotFound
		}
		return false, fmt.Errorf("failed to query post: %w", err)
	}

	var liked bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.PostLike{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete like edge: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			// 不存在则创建（点赞）
			like := &model.PostLike{PostID: postID, UserID: userID}
			if err := tx.Create(like).Error; err != nil {
				return fmt.Errorf("failed to create like edge: %w", err)
			}
			liked = true
		}

		return syncPostEngagement(tx, postID)
	})
	if err != nil {
		return false, err
	}

	if liked && s.notifSvc != nil {
		var actor model.Profile
		if err := s.db.First(&actor, "id = ?", userID).Error; err == nil {
			s.notifSvc.Notify(post.UserID, &userID, model.NotificationLike,
				fmt.Sprintf("%s liked your post", actor.Username), &postID)
		}
	}

	return liked, nil
}

// GiftPost 送礼：无背书表的纯事件计数，单条原子自增
func (s *PostService) GiftPost(postID uuid.UUID) error {
	return s.incrementCounter(postID, "gifts_count")
}

// SharePost 分享计数自增
func (s *PostService) SharePost(postID uuid.UUID) error {
	return s.incrementCounter(postID, "shares_count")
}

// RecordView 浏览事件：无条件自增，不按用户去重
func (s *PostService) RecordView(postID uuid.UUID) error {
	return s.incrementCounter(postID, "views_count")
}

func (s *PostService) incrementCounter(postID uuid.UUID, column string) error {
	result := s.db.Model(&model.Post{}).Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// postQuery 帖子 + 作者信息的基础查询
func (s *PostService) postQuery() *gorm.DB {
	return s.db.Table("posts p").
		Select("p.*, a.username AS author_username, a.display_name AS author_name, a.avatar_url AS author_avatar, a.verification_tier AS author_tier").
		Joins("INNER JOIN profiles a ON a.id = p.user_id")
}

// fillLiked 批量补充 viewer 的点赞状态
func (s *PostService) fillLiked(viewerID uuid.UUID, posts []*model.PostWithAuthor) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	var likes []model.PostLike
	if err := s.db.Where("user_id = ? AND post_id IN ?", viewerID, ids).Find(&likes).Error; err != nil {
		return fmt.Errorf("failed to query like edges: %w", err)
	}

	likedSet := make(map[uuid.UUID]bool, len(likes))
	for _, l := range likes {
		likedSet[l.PostID] = true
	}
	for _, p := range posts {
		p.IsLiked = likedSet[p.ID]
	}

	return nil
}

// getTrending 热门 Feed：按互动加权排序，首页结果短暂缓存
func (s *PostService) getTrending(limit, offset int) ([]model.PostWithAuthor, error) {
	ctx := context.Background()
	useCache := s.rdb != nil && offset == 0

	if useCache {
		if val, err := s.rdb.Get(ctx, trendingCacheKey).Result(); err == nil {
			var cached []model.PostWithAuthor
			if json.Unmarshal([]byte(val), &cached) == nil && len(cached) >= limit {
				return cached[:limit], nil
			}
		}
	}

	var posts []model.PostWithAuthor
	err := s.postQuery().
		Order("(p.likes_count * 3 + p.comments_count * 2 + p.shares_count * 2 + p.gifts_count * 2 + p.views_count) DESC, p.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	if useCache {
		if data, err := json.Marshal(posts); err == nil {
			s.rdb.Set(ctx, trendingCacheKey, data, s.trendingCacheTTL)
		}
	}

	return posts, nil
}

func (s *PostService) invalidateTrending() {
	if s.rdb != nil {
		s.rdb.Del(context.Background(), trendingCacheKey)
	}
}
