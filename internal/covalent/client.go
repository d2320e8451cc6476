package covalent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"holderRaffle/internal/model"
)

const defaultBaseURL = "https://api.covalenthq.com"

// Config controls the GoldRush token holders client.
type Config struct {
	BaseURL     string
	APIKey      string
	ChainName   string
	BlockHeight string
	PageSize    int
	Timeout     time.Duration
}

// StatusError is an API failure reported by HTTP status or the error envelope.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("holders status %d", e.Status)
	}
	return fmt.Sprintf("holders status %d: %s", e.Status, e.Message)
}

// Temporary reports whether the request may succeed when repeated.
func (e *StatusError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Client pages through token holders of an ERC20 contract.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.ChainName == "" {
		return nil, fmt.Errorf("chain name is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.BlockHeight == "" {
		cfg.BlockHeight = "latest"
	}
	if cfg.BlockHeight != "latest" {
		if _, err := strconv.ParseUint(cfg.BlockHeight, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid block height: %s", cfg.BlockHeight)
		}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Client) Name() string {
	return "covalent"
}

// FetchPage returns one page (0-based) of holders for token.
// Items without address or balance are skipped.
func (c *Client) FetchPage(ctx context.Context, token model.Token, page int) (model.HolderPage, error) {
	endpoint, err := c.holdersURL(token.Address, page)
	if err != nil {
		return model.HolderPage{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.HolderPage{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.HolderPage{}, fmt.Errorf("request holders: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return model.HolderPage{}, fmt.Errorf("read response: %w", err)
	}

	var decoded holdersResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			return model.HolderPage{}, &StatusError{Status: resp.StatusCode}
		}
		return model.HolderPage{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || decoded.Error {
		status := resp.StatusCode
		if status == http.StatusOK && decoded.ErrorCode != 0 {
			status = decoded.ErrorCode
		}
		return model.HolderPage{}, &StatusError{Status: status, Message: decoded.ErrorMessage}
	}
	if decoded.Data == nil {
		return model.HolderPage{}, fmt.Errorf("holders response has no data")
	}

	out := model.HolderPage{Balances: make([]model.TokenBalance, 0, len(decoded.Data.Items))}
	for _, item := range decoded.Data.Items {
		if item.Address == nil || item.Balance == nil {
			continue
		}
		out.Balances = append(out.Balances, model.TokenBalance{
			Address: *item.Address,
			Balance: *item.Balance,
		})
	}
	if decoded.Data.Pagination != nil {
		out.HasMore = decoded.Data.Pagination.HasMore
	}
	return out, nil
}

func (c *Client) holdersURL(tokenAddress string, page int) (string, error) {
	base, err := url.Parse(strings.TrimRight(c.cfg.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	base.Path += fmt.Sprintf("/v1/%s/tokens/%s/token_holders_v2/", c.cfg.ChainName, tokenAddress)

	query := url.Values{}
	query.Set("page-size", strconv.Itoa(c.cfg.PageSize))
	query.Set("page-number", strconv.Itoa(page))
	if c.cfg.BlockHeight != "latest" {
		query.Set("block-height", c.cfg.BlockHeight)
	}
	base.RawQuery = query.Encode()
	return base.String(), nil
}
