package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client queries a chain-query service for wallet holdings.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		APIKey:  strings.TrimSpace(apiKey),
		HTTP:    httpClient,
	}
}

type assetsResponse struct {
	Tokens int64 `json:"tokens"`
	NFTs   int64 `json:"nfts"`
}

func (c *Client) Assets(ctx context.Context, walletAddress string) (Assets, error) {
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return Assets{}, errors.New("wallet lookup base url is empty")
	}
	addr := strings.TrimSpace(walletAddress)
	if addr == "" {
		return Assets{}, errors.New("wallet address is empty")
	}

	endpoint := c.BaseURL + "/v1/assets/" + url.PathEscape(addr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Assets{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Assets{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Assets{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Assets{}, fmt.Errorf("wallet lookup http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var ar assetsResponse
	if err := json.Unmarshal(b, &ar); err != nil {
		return Assets{}, err
	}
	if ar.Tokens < 0 || ar.NFTs < 0 {
		return Assets{}, fmt.Errorf("wallet lookup returned negative counts: tokens=%d nfts=%d", ar.Tokens, ar.NFTs)
	}
	return Assets{Tokens: ar.Tokens, NFTs: ar.NFTs}, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}
