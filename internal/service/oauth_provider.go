package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// OAuthProviderConfig holds the external provider endpoints for the login
// completion flow.
type OAuthProviderConfig struct {
	TokenURL     string
	UserInfoURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// HTTPOAuthProvider exchanges authorization codes against a standard OAuth2 /
// OIDC provider over HTTP.
type HTTPOAuthProvider struct {
	config OAuthProviderConfig
	client *http.Client
}

// NewHTTPOAuthProvider builds a provider client with a bounded timeout.
func NewHTTPOAuthProvider(config OAuthProviderConfig) *HTTPOAuthProvider {
	return &HTTPOAuthProvider{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Exchange trades the code for tokens and resolves the identity behind them.
func (p *HTTPOAuthProvider) Exchange(ctx context.Context, code string) (string, string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", p.config.ClientID)
	form.Set("client_secret", p.config.ClientSecret)
	form.Set("redirect_uri", p.config.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("token exchange returned status %d", resp.StatusCode)
	}

	var tokenBody struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenBody); err != nil {
		return "", "", fmt.Errorf("decode token response: %w", err)
	}
	if tokenBody.AccessToken == "" {
		return "", "", fmt.Errorf("token response missing access token")
	}

	infoReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("build userinfo request: %w", err)
	}
	infoReq.Header.Set("Authorization", "Bearer "+tokenBody.AccessToken)

	infoResp, err := p.client.Do(infoReq)
	if err != nil {
		return "", "", fmt.Errorf("userinfo fetch: %w", err)
	}
	defer infoResp.Body.Close()

	if infoResp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("userinfo returned status %d", infoResp.StatusCode)
	}

	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(infoResp.Body).Decode(&info); err != nil {
		return "", "", fmt.Errorf("decode userinfo response: %w", err)
	}
	if info.Email == "" {
		return "", "", fmt.Errorf("userinfo response missing email")
	}

	return info.Email, info.Name, nil
}
