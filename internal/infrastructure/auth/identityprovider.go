package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"learnhub/internal/shared/config"
)

const (
	// httpClientTimeout bounds userinfo requests to the identity provider.
	httpClientTimeout = 30 * time.Second
)

// IdentityProviderClient speaks the OAuth2 authorization-code flow against
// the configured external identity provider. All account identity is
// federated; there are no local credentials.
type IdentityProviderClient struct {
	config      *oauth2.Config
	userInfoURL string
}

// ProviderUserInfo is the subset of the provider's userinfo response the
// application needs to upsert an account.
type ProviderUserInfo struct {
	Subject    string
	Email      string
	Name       string
	LegacyRole string
}

type providerUserInfo struct {
	Sub   string `json:"sub"`
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func NewIdentityProviderClient(cfg config.IdentityProviderConfig) *IdentityProviderClient {
	return &IdentityProviderClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
	}
}

func (c *IdentityProviderClient) GetAuthURL(state string) (string, string, error) {
	codeVerifier, codeChallenge, err := generatePKCEParams()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate PKCE parameters: %w", err)
	}

	authURL := c.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	return authURL, codeVerifier, nil
}

func (c *IdentityProviderClient) ExchangeCode(ctx context.Context, code string, codeVerifier string) (string, error) {
	token, err := c.config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	return token.AccessToken, nil
}

func (c *IdentityProviderClient) GetUserInfo(ctx context.Context, accessToken string) (*ProviderUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{
		Timeout: httpClientTimeout,
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get user info: status %d, body: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var info providerUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	subject := info.Sub
	if subject == "" {
		subject = info.ID
	}
	if subject == "" {
		return nil, fmt.Errorf("userinfo response missing subject")
	}

	return &ProviderUserInfo{
		Subject:    subject,
		Email:      info.Email,
		Name:       info.Name,
		LegacyRole: info.Role,
	}, nil
}
