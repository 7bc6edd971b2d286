package service

import (
	"strings"
	"testing"

	"wegram_server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreatePost_LengthBoundary 测试帖子长度边界：500 合法，501 拒绝且不落库
func TestCreatePost_LengthBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	userA := createTestProfile(t, db, "alice")

	post, err := svc.CreatePost(userA.ID, strings.Repeat("x", model.MaxPostLength), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, post.LikesCount)
	assert.Equal(t, 0, post.ViewsCount)

	_, err = svc.CreatePost(userA.ID, strings.Repeat("x", model.MaxPostLength+1), nil)
	assert.ErrorIs(t, err, ErrPostTooLong)

	_, err = svc.CreatePost(userA.ID, "", nil)
	assert.ErrorIs(t, err, ErrEmptyContent)

	// 只有那条合法的帖子落了库，发帖数同步
	assert.EqualValues(t, 1, countRows(t, db, &model.Post{}, "user_id = ?", userA.ID))
	a := reloadProfile(t, db, userA.ID)
	assert.Equal(t, 1, a.PostsCount)
}

// TestToggleLike 测试点赞的切换语义
//
// 验证闭环：
// 1. 首次点赞：liked=true，likes_count=1
// 2. 再次点赞：liked=false，likes_count=0（连点两次等于赞了又取消）
// 3. 边表存在性恢复到切换前的状态
func TestToggleLike(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	post, err := svc.CreatePost(userA.ID, "hello", nil)
	require.NoError(t, err)

	liked, err := svc.ToggleLike(userB.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	var reloaded model.Post
	require.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 1, reloaded.LikesCount)

	liked, err = svc.ToggleLike(userB.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 0, reloaded.LikesCount)
	assert.EqualValues(t, 0, countRows(t, db, &model.PostLike{}, "post_id = ?", post.ID))
}

// TestToggleLike_Notification 测试点赞时通知作者、自赞不通知
func TestToggleLike_Notification(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	svc.SetNotificationService(NewNotificationService(db))

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	post, err := svc.CreatePost(userA.ID, "hello", nil)
	require.NoError(t, err)

	// 作者自赞：抑制
	_, err = svc.ToggleLike(userA.ID, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, countRows(t, db, &model.Notification{}, "user_id = ?", userA.ID))

	// 他人点赞：作者收到 like 通知
	_, err = svc.ToggleLike(userB.ID, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, countRows(t, db, &model.Notification{},
		"user_id = ? AND type = ?", userA.ID, model.NotificationLike))

	// 取消点赞不再通知
	_, err = svc.ToggleLike(userB.ID, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, countRows(t, db, &model.Notification{},
		"user_id = ? AND type = ?", userA.ID, model.NotificationLike))
}

// TestEventCounters 测试无背书表的事件计数：views/shares/gifts 无条件自增
func TestEventCounters(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	userA := createTestProfile(t, db, "alice")
	post, err := svc.CreatePost(userA.ID, "hello", nil)
	require.NoError(t, err)

	// 同一"用户"连续浏览也逐次计数（不去重）
	require.NoError(t, svc.RecordView(post.ID))
	require.NoError(t, svc.RecordView(post.ID))
	require.NoError(t, svc.SharePost(post.ID))
	require.NoError(t, svc.GiftPost(post.ID))

	var reloaded model.Post
	require.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 2, reloaded.ViewsCount)
	assert.Equal(t, 1, reloaded.SharesCount)
	assert.Equal(t, 1, reloaded.GiftsCount)

	// 不存在的帖子
	ghost := post.ID
	require.NoError(t, db.Delete(&model.Post{}, "id = ?", post.ID).Error)
	assert.ErrorIs(t, svc.RecordView(ghost), ErrPostNotFound)
}

// TestDeletePost 测试删帖：仅作者本人，子行清理，发帖数重算
func TestDeletePost(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	commentSvc := NewCommentService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	post, err := svc.CreatePost(userA.ID, "hello", nil)
	require.NoError(t, err)

	_, err = svc.ToggleLike(userB.ID, post.ID)
	require.NoError(t, err)
	_, err = commentSvc.CreateComment(userB.ID, post.ID, "nice")
	require.NoError(t, err)

	// 非作者删除被拒
	assert.ErrorIs(t, svc.DeletePost(userB.ID, post.ID), ErrNotOwner)

	require.NoError(t, svc.DeletePost(userA.ID, post.ID))

	assert.EqualValues(t, 0, countRows(t, db, &model.PostLike{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 0, countRows(t, db, &model.Comment{}, "post_id = ?", post.ID))
	a := reloadProfile(t, db, userA.ID)
	assert.Equal(t, 0, a.PostsCount)
}

// TestGetFeed_Variants 测试 Feed 变体
//
// 验证闭环：
// 1. following：只有被关注用户的帖子
// 2. trending：互动多的帖子排前面
// 3. user_posts：只有目标用户的帖子
func TestGetFeed_Variants(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	followSvc := NewFollowService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")
	userC := createTestProfile(t, db, "carol")

	postB, err := svc.CreatePost(userB.ID, "from bob", nil)
	require.NoError(t, err)
	postC, err := svc.CreatePost(userC.ID, "from carol", nil)
	require.NoError(t, err)

	_, err = followSvc.Follow(userA.ID, userB.ID)
	require.NoError(t, err)

	// following：只看到 B 的帖子
	feed, err := svc.GetFeed(FeedFollowing, userA.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, postB.ID, feed[0].ID)
	assert.Equal(t, "bob", feed[0].AuthorUsername)

	// all：全部帖子
	feed, err = svc.GetFeed(FeedAll, userA.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, feed, 2)

	// trending：C 的帖子互动多，排第一
	_, err = svc.ToggleLike(userA.ID, postC.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(userB.ID, postC.ID)
	require.NoError(t, err)

	feed, err = svc.GetFeed(FeedTrending, userA.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, postC.ID, feed[0].ID)
	assert.True(t, feed[0].IsLiked) // A 赞过 C 的帖子

	// user_posts
	posts, err := svc.GetUserPosts(userB.ID, userA.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, postB.ID, posts[0].ID)
}

// TestGetFeed_UnknownType 测试未知 feed 类型是显式错误，不静默退化成全站时间线
func TestGetFeed_UnknownType(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	userA := createTestProfile(t, db, "alice")
	_, err := svc.CreatePost(userA.ID, "hello", nil)
	require.NoError(t, err)

	_, err = svc.GetFeed("hottest", userA.ID, 20, 0)
	assert.ErrorIs(t, err, ErrUnknownFeedType)
}
