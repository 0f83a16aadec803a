package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"riddleward/internal/repository"
	"riddleward/internal/service"
)

type RewardGranter interface {
	Grant(ctx context.Context, walletAddress string) (*service.Grant, error)
}

type RewardHandler struct {
	Rewards RewardGranter
	Repo    repository.Repository
	Logger  *zap.Logger
}

func (h *RewardHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/rewards")
	group.POST("", h.grant)
	group.GET("/winners", h.winners)
	group.GET("/scammers", h.scammers)
}

type grantRewardRequest struct {
	WalletAddress string `json:"wallet_address"`
}

// @Summary Request a reward for a winning wallet
// @Tags rewards
// @Accept json
// @Param body body grantRewardRequest true "wallet"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/rewards [post]
func (h *RewardHandler) grant(c *gin.Context) {
	var req grantRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "wallet address required", nil)
		return
	}
	if strings.TrimSpace(req.WalletAddress) == "" {
		Error(c, http.StatusBadRequest, "wallet address required", nil)
		return
	}

	grant, err := h.Rewards.Grant(c.Request.Context(), req.WalletAddress)
	if err != nil {
		switch err {
		case service.ErrMissingWallet:
			Error(c, http.StatusBadRequest, "wallet address required", nil)
		case service.ErrDailyCapExceeded:
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "daily reward limit exceeded"})
		case service.ErrCooldownActive:
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "not eligible for reward"})
		default:
			if h.Logger != nil {
				h.Logger.Error("reward grant failed", zap.String("wallet", req.WalletAddress), zap.Error(err))
			}
			Error(c, http.StatusInternalServerError, "internal error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"wallet":        grant.WalletAddress,
		"reward_amount": grant.Amount,
		"message":       fmt.Sprintf("%d tokens will be sent to wallet", grant.Amount),
	})
}

// @Summary List the winner ledger
// @Tags rewards
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Param wallet query string false "wallet filter"
// @Success 200 {object} apiResponse
// @Router /api/v1/rewards/winners [get]
func (h *RewardHandler) winners(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := ledgerParams(c)
	items, err := h.Repo.ListWinners(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	total, err := h.Repo.CountWinners(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	Ok(c, items, map[string]any{"total": total, "limit": params.Limit, "offset": params.Offset})
}

// @Summary List the abuse audit log
// @Tags rewards
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Param wallet query string false "wallet filter"
// @Success 200 {object} apiResponse
// @Router /api/v1/rewards/scammers [get]
func (h *RewardHandler) scammers(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := ledgerParams(c)
	items, err := h.Repo.ListScammers(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	total, err := h.Repo.CountScammers(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	Ok(c, items, map[string]any{"total": total, "limit": params.Limit, "offset": params.Offset})
}

func ledgerParams(c *gin.Context) repository.ListLedgerParams {
	params := repository.ListLedgerParams{
		Limit:  queryInt(c, "limit", 100),
		Offset: queryInt(c, "offset", 0),
	}
	if w := strings.TrimSpace(c.Query("wallet")); w != "" {
		params.Wallet = &w
	}
	return params
}
