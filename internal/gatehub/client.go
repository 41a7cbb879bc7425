// File: internal/gatehub/client.go
package gatehub

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wallet_backend/internal/common"
	"wallet_backend/internal/config"

	"go.uber.org/zap"
)

// Client is the capability surface of the GateHub HTTP API consumed by this
// application. It is injected everywhere as an interface so tests can swap in
// a double.
type Client interface {
	GetIframeURL(ctx context.Context, externalUserID, iframeType string) (string, error)
	CreateManagedUser(ctx context.Context, email string) (*ManagedUser, error)
	GetUserState(ctx context.Context, externalUserID string) (*UserState, error)
	CreateWallet(ctx context.Context, externalUserID, name string) (*Wallet, error)
	ConnectUserToGateway(ctx context.Context, externalUserID string, profile *Profile) (bool, error)
	AddUserToGateway(ctx context.Context, externalUserID, walletAddress string) error
	GetWalletBalance(ctx context.Context, externalUserID, walletAddress string) ([]Balance, error)
	ValidateWebhookSignature(body []byte, signature string) error
}

// HTTPClient is the production implementation of Client.
type HTTPClient struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a new GateHub API client.
func NewHTTPClient(cfg *config.Config, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger.Named("gatehub_client"),
	}
}

// GetIframeURL produces an embeddable hosted-page URL for the given user and
// iframe type. Ramp pages are served from the dedicated ramp host and need no
// API round-trip; every other type is minted by the identity API. The URL is
// returned verbatim and is never cached.
func (c *HTTPClient) GetIframeURL(ctx context.Context, externalUserID, iframeType string) (string, error) {
	if iframeType == IframeTypeRamp {
		return fmt.Sprintf("%s/?userUuid=%s&network=%s",
			strings.TrimSuffix(c.cfg.GateHubRampURL, "/"), externalUserID, c.cfg.GateHubEnv), nil
	}

	var resp iframeURLResponse
	path := fmt.Sprintf("/id/v1/users/%s/iframe?type=%s", externalUserID, iframeType)
	if err := c.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// CreateManagedUser provisions a provider-managed user for the given email.
func (c *HTTPClient) CreateManagedUser(ctx context.Context, email string) (*ManagedUser, error) {
	var resp ManagedUser
	if err := c.request(ctx, http.MethodPost, "/auth/v1/users", createManagedUserRequest{Email: email}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetUserState fetches the current verification state snapshot for a managed user.
func (c *HTTPClient) GetUserState(ctx context.Context, externalUserID string) (*UserState, error) {
	var resp UserState
	path := fmt.Sprintf("/id/v1/users/%s", externalUserID)
	if err := c.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateWallet creates a hosted wallet for a managed user inside the
// configured vault.
func (c *HTTPClient) CreateWallet(ctx context.Context, externalUserID, name string) (*Wallet, error) {
	var resp Wallet
	path := fmt.Sprintf("/core/v1/users/%s/wallets", externalUserID)
	body := createWalletRequest{Name: name, Type: 1, VaultUUID: c.cfg.GateHubVaultUUID}
	if err := c.request(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConnectUserToGateway attaches a managed user to the configured gateway,
// supplying the profile snapshot as context per the provider contract. The
// returned boolean reports whether the gateway accepted (approved) the user.
func (c *HTTPClient) ConnectUserToGateway(ctx context.Context, externalUserID string, profile *Profile) (bool, error) {
	var resp connectGatewayResponse
	path := fmt.Sprintf("/core/v1/gateways/%s/users", c.cfg.GateHubGatewayUUID)
	body := connectGatewayRequest{UserUUID: externalUserID, Profile: profile}
	if err := c.request(ctx, http.MethodPost, path, body, &resp); err != nil {
		return false, err
	}
	return resp.Connected, nil
}

// AddUserToGateway registers a wallet address for a managed user with the gateway.
func (c *HTTPClient) AddUserToGateway(ctx context.Context, externalUserID, walletAddress string) error {
	path := fmt.Sprintf("/core/v1/gateways/%s/hosted-users", c.cfg.GateHubGatewayUUID)
	body := addUserToGatewayRequest{UserUUID: externalUserID, WalletAddress: walletAddress}
	return c.request(ctx, http.MethodPost, path, body, nil)
}

// GetWalletBalance fetches the balances of a managed wallet.
func (c *HTTPClient) GetWalletBalance(ctx context.Context, externalUserID, walletAddress string) ([]Balance, error) {
	var resp []Balance
	path := fmt.Sprintf("/core/v1/wallets/%s/balances", walletAddress)
	if err := c.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ValidateWebhookSignature checks the HMAC signature GateHub attaches to
// webhook deliveries against the shared secret.
func (c *HTTPClient) ValidateWebhookSignature(body []byte, signature string) error {
	if signature == "" {
		return common.ErrUnauthorized.WithDetails("Missing webhook signature.")
	}
	expected := signPayload(c.cfg.GateHubSecretKey, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return common.ErrUnauthorized.WithDetails("Invalid webhook signature.")
	}
	return nil
}

// request performs a signed request against the GateHub API and decodes the
// JSON response into out (when out is non-nil). Transport errors and non-2xx
// statuses surface as a single upstream-failure kind; they are not retried here.
func (c *HTTPClient) request(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gatehub: marshal request body: %w", err)
		}
	}

	url := c.cfg.GateHubAPIURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("gatehub: build request: %w", err)
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	toSign := fmt.Sprintf("%s|%s|%s|%s", timestamp, method, url, string(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-gatehub-uuid", c.cfg.GateHubAccessKey)
	req.Header.Set("x-gatehub-timestamp", timestamp)
	req.Header.Set("x-gatehub-signature", signPayload(c.cfg.GateHubSecretKey, []byte(toSign)))

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("GateHub request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return common.ErrBadGateway.WithDetails("GateHub request failed.")
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.Error("Failed to read GateHub response", zap.String("path", path), zap.Error(err))
		return common.ErrBadGateway.WithDetails("Failed to read GateHub response.")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.logger.Error("GateHub responded with an error status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", res.StatusCode),
			zap.ByteString("body", resBody),
		)
		return common.ErrBadGateway.WithDetails(fmt.Sprintf("GateHub responded with status %d.", res.StatusCode))
	}

	if out == nil || len(resBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		c.logger.Error("Failed to decode GateHub response", zap.String("path", path), zap.Error(err))
		return common.ErrBadGateway.WithDetails("Malformed GateHub response.")
	}
	return nil
}

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
