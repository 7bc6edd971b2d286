package handler

import (
	"wegram_server/middleware"
	"wegram_server/service"
	"wegram_server/utils"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletSvc *service.WalletService
}

func NewWalletHandler(walletSvc *service.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Link 绑定钱包（每个用户最多一个）
func (h *WalletHandler) Link(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		PublicKey           string `json:"public_key" binding:"required"`
		EncryptedPrivateKey string `json:"encrypted_private_key" binding:"required"`
		EncryptedMnemonic   string `json:"encrypted_mnemonic" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	profile, err := h.walletSvc.LinkWallet(userID, req.PublicKey, req.EncryptedPrivateKey, req.EncryptedMnemonic)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"wallet_public_key": profile.WalletPublicKey})
}

// Get 查询钱包公钥
func (h *WalletHandler) Get(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	publicKey, err := h.walletSvc.GetWallet(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"wallet_public_key": publicKey})
}

// Tokens 代币列表（上游 API 代理 + 缓存）
func (h *WalletHandler) Tokens(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	tokens, err := h.walletSvc.GetTokenList(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"tokens": tokens})
}
