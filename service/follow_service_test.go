package service

import (
	"testing"

	"wegram_server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFollow_CountersMatchEdges 测试关注/取关后计数与边表基数一致
//
// 测试目标：
// - 任意一串关注/取关操作结束后，followers_count/following_count
//   都等于 follows 表的真实 COUNT
func TestFollow_CountersMatchEdges(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")
	userC := createTestProfile(t, db, "carol")

	// A 关注 B，C 关注 B
	_, err := svc.Follow(userA.ID, userB.ID)
	require.NoError(t, err)
	_, err = svc.Follow(userC.ID, userB.ID)
	require.NoError(t, err)

	b := reloadProfile(t, db, userB.ID)
	assert.Equal(t, 2, b.FollowersCount)
	assert.Equal(t, 0, b.FollowingCount)

	a := reloadProfile(t, db, userA.ID)
	assert.Equal(t, 1, a.FollowingCount)
	assert.Equal(t, 0, a.FollowersCount)

	// A 取关 B
	require.NoError(t, svc.Unfollow(userA.ID, userB.ID))

	b = reloadProfile(t, db, userB.ID)
	assert.Equal(t, 1, b.FollowersCount)
	a = reloadProfile(t, db, userA.ID)
	assert.Equal(t, 0, a.FollowingCount)

	// 计数必须等于边表真实基数
	assert.EqualValues(t, b.FollowersCount,
		countRows(t, db, &model.Follow{}, "following_id = ?", userB.ID))
}

// TestFollow_SelfFollowRejected 测试自关注被拒绝且不改变任何状态
func TestFollow_SelfFollowRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)

	userA := createTestProfile(t, db, "alice")

	_, err := svc.Follow(userA.ID, userA.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)

	a := reloadProfile(t, db, userA.ID)
	assert.Equal(t, 0, a.FollowersCount)
	assert.Equal(t, 0, a.FollowingCount)
	assert.EqualValues(t, 0, countRows(t, db, &model.Follow{}, "follower_id = ?", userA.ID))
}

// TestFollow_DuplicateRejected 测试重复关注是显式错误而不是静默成功
func TestFollow_DuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	_, err := svc.Follow(userA.ID, userB.ID)
	require.NoError(t, err)

	_, err = svc.Follow(userA.ID, userB.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	// 计数不受失败操作影响
	b := reloadProfile(t, db, userB.ID)
	assert.Equal(t, 1, b.FollowersCount)
}

// TestFollow_TargetNotFound 测试关注不存在的用户
func TestFollow_TargetNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)

	userA := createTestProfile(t, db, "alice")
	ghost := createTestProfile(t, db, "ghost")
	require.NoError(t, db.Delete(&model.Profile{}, "id = ?", ghost.ID).Error)

	_, err := svc.Follow(userA.ID, ghost.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

// TestUnfollow_NotFollowing 测试取关不存在的边
func TestUnfollow_NotFollowing(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	err := svc.Unfollow(userA.ID, userB.ID)
	assert.ErrorIs(t, err, ErrNotFollowing)
}

// TestFollow_Notification 测试关注成功后给被关注者发通知
//
// 验证闭环：
// 1. A 关注 B，B 收到一条 follow 通知，actor 是 A
// 2. 通知失败不影响关注本身（通知服务缺席时关注照常成功）
func TestFollow_Notification(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	svc.SetNotificationService(NewNotificationService(db))

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	_, err := svc.Follow(userA.ID, userB.ID)
	require.NoError(t, err)

	var notifications []model.Notification
	require.NoError(t, db.Where("user_id = ?", userB.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationFollow, notifications[0].Type)
	require.NotNil(t, notifications[0].ActorID)
	assert.Equal(t, userA.ID, *notifications[0].ActorID)

	// 没有注入通知服务时关注依旧成功
	svcNoNotif := NewFollowService(db)
	userC := createTestProfile(t, db, "carol")
	_, err = svcNoNotif.Follow(userC.ID, userB.ID)
	require.NoError(t, err)
}

// TestFollowers_Listing 测试粉丝/关注列表
func TestFollowers_Listing(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")
	userC := createTestProfile(t, db, "carol")

	_, err := svc.Follow(userA.ID, userB.ID)
	require.NoError(t, err)
	_, err = svc.Follow(userC.ID, userB.ID)
	require.NoError(t, err)

	followers, err := svc.GetFollowers(userB.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := svc.GetFollowing(userA.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, userB.ID, following[0].ID)

	isFollowing, err := svc.IsFollowing(userA.ID, userB.ID)
	require.NoError(t, err)
	assert.True(t, isFollowing)
}
