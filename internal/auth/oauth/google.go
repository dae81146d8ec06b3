package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	ErrInvalidProvider = errors.New("invalid_provider")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrExchangeFailed  = errors.New("oauth_exchange_failed")
)

// Identity is the normalized profile returned by the provider.
type Identity struct {
	ExternalID string
	Email      string
	GivenName  string
	FamilyName string
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// GoogleClient performs the authorization-code exchange against Google.
type GoogleClient struct {
	cfg        Config
	httpClient *http.Client
}

func NewGoogleClient(cfg Config) *GoogleClient {
	return &GoogleClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *GoogleClient) Enabled() bool {
	return strings.TrimSpace(c.cfg.ClientID) != "" && strings.TrimSpace(c.cfg.ClientSecret) != ""
}

// RedirectURL builds the consent URL for the frontend to redirect to.
func (c *GoogleClient) RedirectURL(state string) (string, error) {
	if !c.Enabled() {
		return "", ErrInvalidProvider
	}
	if strings.TrimSpace(c.cfg.RedirectURI) == "" {
		return "", ErrInvalidRequest
	}

	query := url.Values{}
	query.Set("client_id", c.cfg.ClientID)
	query.Set("redirect_uri", c.cfg.RedirectURI)
	query.Set("response_type", "code")
	query.Set("scope", "openid email profile")
	query.Set("access_type", "offline")
	if strings.TrimSpace(state) != "" {
		query.Set("state", state)
	}
	return googleAuthURL + "?" + query.Encode(), nil
}

// Exchange trades the authorization code for the user's identity.
func (c *GoogleClient) Exchange(ctx context.Context, code string) (*Identity, error) {
	if !c.Enabled() {
		return nil, ErrInvalidProvider
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidRequest
	}

	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ErrExchangeFailed
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil || strings.TrimSpace(tokenResp.AccessToken) == "" {
		return nil, ErrExchangeFailed
	}

	return c.fetchUserinfo(ctx, tokenResp.AccessToken)
}

func (c *GoogleClient) fetchUserinfo(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ErrExchangeFailed
	}

	var info struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, ErrExchangeFailed
	}
	if strings.TrimSpace(info.ID) == "" || strings.TrimSpace(info.Email) == "" {
		return nil, ErrExchangeFailed
	}

	return &Identity{
		ExternalID: info.ID,
		Email:      info.Email,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
	}, nil
}
