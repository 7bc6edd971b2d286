package service

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLinkWallet 测试绑定钱包：密文材料落库但永不出现在 JSON 里
func TestLinkWallet(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db, nil, "", 300)

	userA := createTestProfile(t, db, "alice")

	profile, err := svc.LinkWallet(userA.ID, "pubkey-abc", "enc-priv", "enc-mnemonic")
	require.NoError(t, err)
	require.NotNil(t, profile.WalletPublicKey)
	assert.Equal(t, "pubkey-abc", *profile.WalletPublicKey)

	stored := reloadProfile(t, db, userA.ID)
	require.NotNil(t, stored.WalletPrivateKeyEnc)
	assert.Equal(t, "enc-priv", *stored.WalletPrivateKeyEnc)
	require.NotNil(t, stored.WalletMnemonicEnc)
	assert.Equal(t, "enc-mnemonic", *stored.WalletMnemonicEnc)

	data, err := json.Marshal(stored)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pubkey-abc")
	assert.NotContains(t, string(data), "enc-priv")
	assert.NotContains(t, string(data), "enc-mnemonic")
}

// TestLinkWallet_OnePerProfile 测试每个用户最多一个钱包：重复绑定是显式错误
func TestLinkWallet_OnePerProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db, nil, "", 300)

	userA := createTestProfile(t, db, "alice")

	_, err := svc.LinkWallet(userA.ID, "pubkey-first", "enc-priv-1", "enc-mnemonic-1")
	require.NoError(t, err)

	_, err = svc.LinkWallet(userA.ID, "pubkey-second", "enc-priv-2", "enc-mnemonic-2")
	assert.ErrorIs(t, err, ErrWalletExists)

	// 第一个钱包原样保留
	stored := reloadProfile(t, db, userA.ID)
	require.NotNil(t, stored.WalletPublicKey)
	assert.Equal(t, "pubkey-first", *stored.WalletPublicKey)

	_, err = svc.LinkWallet(uuid.New(), "pubkey-x", "p", "m")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

// TestGetWallet 测试查询钱包：只返回公钥，未绑定是明确的 404
func TestGetWallet(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db, nil, "", 300)

	userA := createTestProfile(t, db, "alice")

	_, err := svc.GetWallet(userA.ID)
	assert.ErrorIs(t, err, ErrWalletNotFound)

	_, err = svc.LinkWallet(userA.ID, "pubkey-abc", "enc-priv", "enc-mnemonic")
	require.NoError(t, err)

	pubKey, err := svc.GetWallet(userA.ID)
	require.NoError(t, err)
	assert.Equal(t, "pubkey-abc", pubKey)
}
