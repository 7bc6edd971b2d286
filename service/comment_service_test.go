package service

import (
	"strings"
	"testing"

	"wegram_server/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateComment_LengthBoundary 测试评论长度边界：280 合法，281 拒绝
func TestCreateComment_LengthBoundary(t *testing.T) {
	db := newTestDB(t)
	postSvc := NewPostService(db)
	svc := NewCommentService(db)

	userA := createTestProfile(t, db, "alice")
	post, err := postSvc.CreatePost(userA.ID, "hello", nil)
	require.NoError(t, err)

	_, err = svc.CreateComment(userA.ID, post.ID, strings.Repeat("x", model.MaxCommentLength))
	require.NoError(t, err)

	_, err = svc.CreateComment(userA.ID, post.ID, strings.Repeat("x", model.MaxCommentLength+1))
	assert.ErrorIs(t, err, ErrCommentTooLong)

	// 只有合法评论落库，帖子评论数同步
	var reloaded model.Post
	require.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 1, reloaded.CommentsCount)
}

// TestCreateComment_Notification 测试评论通知：他人评论通知作者，自评抑制
func TestCreateComment_Notification(t *testing.T) {
	db := newTestDB(t)
	postSvc := NewPostService(db)
	svc := NewCommentService(db)
	svc.SetNotificationService(NewNotificationService(db))

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	post, err := postSvc.CreatePost(userA.ID, "hello", nil)
	require.NoError(t, err)

	// 作者自评：不通知
	_, err = svc.CreateComment(userA.ID, post.ID, "my own post")
	require.NoError(t, err)
	assert.EqualValues(t, 0, countRows(t, db, &model.Notification{}, "user_id = ?", userA.ID))

	// 他人评论：作者收到 comment 通知
	_, err = svc.CreateComment(userB.ID, post.ID, "nice post")
	require.NoError(t, err)

	var notifications []model.Notification
	require.NoError(t, db.Where("user_id = ?", userA.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationComment, notifications[0].Type)
	require.NotNil(t, notifications[0].PostID)
	assert.Equal(t, post.ID, *notifications[0].PostID)
}

// TestGetComments_BlockedAuthorFiltered 测试评论列表过滤互相拉黑的作者
//
// 验证闭环：
// 1. B、C 都评论了 A 的帖子
// 2. A 拉黑 B 后，A 看帖子评论只剩 C 的
// 3. 被拉黑方 B 看评论列表也看不到 A 的评论（双向过滤）
func TestGetComments_BlockedAuthorFiltered(t *testing.T) {
	db := newTestDB(t)
	postSvc := NewPostService(db)
	svc := NewCommentService(db)
	blockSvc := NewBlockService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")
	userC := createTestProfile(t, db, "carol")

	post, err := postSvc.CreatePost(userA.ID, "hello", nil)
	require.NoError(t, err)

	_, err = svc.CreateComment(userB.ID, post.ID, "from bob")
	require.NoError(t, err)
	_, err = svc.CreateComment(userC.ID, post.ID, "from carol")
	require.NoError(t, err)
	_, err = svc.CreateComment(userA.ID, post.ID, "from alice")
	require.NoError(t, err)

	_, err = blockSvc.BlockUser(userA.ID, userB.ID)
	require.NoError(t, err)

	// A 视角：B 的评论被过滤
	comments, err := svc.GetComments(post.ID, userA.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	for _, c := range comments {
		assert.NotEqual(t, userB.ID, c.UserID)
	}

	// B 视角：A 的评论被过滤
	comments, err = svc.GetComments(post.ID, userB.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	for _, c := range comments {
		assert.NotEqual(t, userA.ID, c.UserID)
	}

	// 无 viewer：不过滤
	comments, err = svc.GetComments(post.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, comments, 3)
}

// TestCommentLikeToggle 测试评论点赞切换 + 计数重算
func TestCommentLikeToggle(t *testing.T) {
	db := newTestDB(t)
	postSvc := NewPostService(db)
	svc := NewCommentService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	post, err := postSvc.CreatePost(userA.ID, "hello", nil)
	require.NoError(t, err)
	comment, err := svc.CreateComment(userA.ID, post.ID, "first")
	require.NoError(t, err)

	liked, err := svc.ToggleLike(userB.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	var reloaded model.Comment
	require.NoError(t, db.First(&reloaded, "id = ?", comment.ID).Error)
	assert.Equal(t, 1, reloaded.LikesCount)

	liked, err = svc.ToggleLike(userB.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, db.First(&reloaded, "id = ?", comment.ID).Error)
	assert.Equal(t, 0, reloaded.LikesCount)
}

// TestDeleteComment 测试删评论：仅作者，帖子评论数重算
func TestDeleteComment(t *testing.T) {
	db := newTestDB(t)
	postSvc := NewPostService(db)
	svc := NewCommentService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	post, err := postSvc.CreatePost(userA.ID, "hello", nil)
	require.NoError(t, err)
	comment, err := svc.CreateComment(userB.ID, post.ID, "nice")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteComment(userA.ID, comment.ID), ErrNotOwner)

	require.NoError(t, svc.DeleteComment(userB.ID, comment.ID))

	var reloaded model.Post
	require.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 0, reloaded.CommentsCount)
}
