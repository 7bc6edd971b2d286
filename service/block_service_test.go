package service

import (
	"testing"

	"wegram_server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBlock_CascadeUnfollow 测试拉黑级联双向取关并权威重算计数
//
// 验证闭环：
// 1. A、B 互相关注
// 2. A 拉黑 B：两条关注边都被删除
// 3. 双方四个计数都等于边表的真实基数（不是各减一次）
func TestBlock_CascadeUnfollow(t *testing.T) {
	db := newTestDB(t)
	followSvc := NewFollowService(db)
	blockSvc := NewBlockService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	_, err := followSvc.Follow(userA.ID, userB.ID)
	require.NoError(t, err)
	_, err = followSvc.Follow(userB.ID, userA.ID)
	require.NoError(t, err)

	_, err = blockSvc.BlockUser(userA.ID, userB.ID)
	require.NoError(t, err)

	// 双向关注边都没了
	assert.EqualValues(t, 0, countRows(t, db, &model.Follow{},
		"(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)",
		userA.ID, userB.ID, userB.ID, userA.ID))

	a := reloadProfile(t, db, userA.ID)
	b := reloadProfile(t, db, userB.ID)
	assert.Equal(t, 0, a.FollowersCount)
	assert.Equal(t, 0, a.FollowingCount)
	assert.Equal(t, 0, b.FollowersCount)
	assert.Equal(t, 0, b.FollowingCount)
}

// TestBlock_SingleDirectionFollow 测试只有单向关注时拉黑
func TestBlock_SingleDirectionFollow(t *testing.T) {
	db := newTestDB(t)
	followSvc := NewFollowService(db)
	blockSvc := NewBlockService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")
	userC := createTestProfile(t, db, "carol")

	// B 还关注着 C，拉黑 A 不应影响这条边
	_, err := followSvc.Follow(userB.ID, userA.ID)
	require.NoError(t, err)
	_, err = followSvc.Follow(userB.ID, userC.ID)
	require.NoError(t, err)

	_, err = blockSvc.BlockUser(userA.ID, userB.ID)
	require.NoError(t, err)

	b := reloadProfile(t, db, userB.ID)
	assert.Equal(t, 1, b.FollowingCount) // 只剩 B->C
	assert.EqualValues(t, b.FollowingCount,
		countRows(t, db, &model.Follow{}, "follower_id = ?", userB.ID))
}

// TestBlock_SelfAndDuplicateRejected 测试自拉黑和重复拉黑
func TestBlock_SelfAndDuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlockService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	_, err := svc.BlockUser(userA.ID, userA.ID)
	assert.ErrorIs(t, err, ErrSelfBlock)

	_, err = svc.BlockUser(userA.ID, userB.ID)
	require.NoError(t, err)

	_, err = svc.BlockUser(userA.ID, userB.ID)
	assert.ErrorIs(t, err, ErrAlreadyBlocked)
}

// TestUnblock_NoCounterSideEffect 测试解除拉黑无计数副作用
//
// 场景（对应拉黑-解除的完整闭环）：
// A 关注 B → A 拉黑 B → A 解除拉黑
// 解除时已无关注关系，计数保持为 0，不会出现负数或残留
func TestUnblock_NoCounterSideEffect(t *testing.T) {
	db := newTestDB(t)
	followSvc := NewFollowService(db)
	blockSvc := NewBlockService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	_, err := followSvc.Follow(userA.ID, userB.ID)
	require.NoError(t, err)

	_, err = blockSvc.BlockUser(userA.ID, userB.ID)
	require.NoError(t, err)

	require.NoError(t, blockSvc.UnblockUser(userA.ID, userB.ID))

	a := reloadProfile(t, db, userA.ID)
	b := reloadProfile(t, db, userB.ID)
	assert.Equal(t, 0, a.FollowingCount)
	assert.Equal(t, 0, b.FollowersCount)

	// 再次解除是 404
	err = blockSvc.UnblockUser(userA.ID, userB.ID)
	assert.ErrorIs(t, err, ErrNotBlocked)
}

// TestBlockedUsers_ListAndCheck 测试拉黑列表和双向检查
func TestBlockedUsers_ListAndCheck(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlockService(db)

	userA := createTestProfile(t, db, "alice")
	userB := createTestProfile(t, db, "bob")

	_, err := svc.BlockUser(userA.ID, userB.ID)
	require.NoError(t, err)

	blocked, err := svc.GetBlockedUsers(userA.ID)
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, userB.ID, blocked[0].ID)

	// 任一方向都算拉黑
	either, err := svc.IsBlockedEither(userB.ID, userA.ID)
	require.NoError(t, err)
	assert.True(t, either)
}
