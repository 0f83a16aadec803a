package wallet

import (
	"context"
	"strings"

	"riddleward/internal/config"
)

// Assets is the on-chain holdings snapshot used for reward tiering.
type Assets struct {
	Tokens int64 `json:"tokens"`
	NFTs   int64 `json:"nfts"`
}

// Lookup resolves a wallet address to its asset snapshot. Implementations
// never return partial data: either both counts or an error.
type Lookup interface {
	Assets(ctx context.Context, walletAddress string) (Assets, error)
}

// StaticLookup serves assets from a fixed map. Unknown wallets resolve to
// zero holdings rather than an error.
type StaticLookup struct {
	ByWallet map[string]Assets
}

func NewStaticLookup(static map[string]config.StaticAssets) *StaticLookup {
	byWallet := make(map[string]Assets, len(static))
	for addr, a := range static {
		byWallet[strings.TrimSpace(addr)] = Assets{Tokens: a.Tokens, NFTs: a.NFTs}
	}
	return &StaticLookup{ByWallet: byWallet}
}

func (s *StaticLookup) Assets(_ context.Context, walletAddress string) (Assets, error) {
	if s == nil {
		return Assets{}, nil
	}
	return s.ByWallet[strings.TrimSpace(walletAddress)], nil
}
