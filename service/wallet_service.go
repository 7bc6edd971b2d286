package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wegram_server/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const tokenListCacheKey = "tokenlist:verified"

type WalletService struct {
	db           *gorm.DB
	rdb          *redis.Client
	profileSvc   *ProfileService
	tokenListURL string
	cacheTTL     time.Duration
	httpClient   *http.Client
}

func NewWalletService(db *gorm.DB, rdb *redis.Client, tokenListURL string, cacheTTLSeconds int) *WalletService {
	return &WalletService{
		db:           db,
		rdb:          rdb,
		profileSvc:   NewProfileService(db),
		tokenListURL: tokenListURL,
		cacheTTL:     time.Duration(cacheTTLSeconds) * time.Second,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// LinkWallet 绑定钱包：每个用户最多一个，重复绑定是显式错误
// 私钥和助记词由客户端加密后上传，服务端只存密文
func (s *WalletService) LinkWallet(userID uuid.UUID, publicKey, privateKeyEnc, mnemonicEnc string) (*model.Profile, error) {
	profile, err := s.profileSvc.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if profile.WalletPublicKey != nil {
		return nil, ErrWalletExists
	}

	err = s.db.Model(&model.Profile{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"wallet_public_key":      publicKey,
		"wallet_private_key_enc": privateKeyEnc,
		"wallet_mnemonic_enc":    mnemonicEnc,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to link wallet: %w", err)
	}

	return s.profileSvc.GetProfile(userID)
}

// GetWallet 查询钱包公钥（私钥材料只写不读）
func (s *WalletService) GetWallet(userID uuid.UUID) (string, error) {
	profile, err := s.profileSvc.GetProfile(userID)
	if err != nil {
		return "", err
	}

	if profile.WalletPublicKey == nil {
		return "", ErrWalletNotFound
	}

	return *profile.WalletPublicKey, nil
}

// GetTokenList 代理上游代币列表 API，结果在 Redis 缓存
func (s *WalletService) GetTokenList(ctx context.Context) (json.RawMessage, error) {
	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, tokenListCacheKey).Result(); err == nil {
			return json.RawMessage(val), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.tokenListURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build token list request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token list upstream returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token list response: %w", err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("token list upstream returned invalid JSON")
	}

	if s.rdb != nil {
		s.rdb.Set(ctx, tokenListCacheKey, body, s.cacheTTL)
	}

	return json.RawMessage(body), nil
}
