package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/finkan/finkan-api/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

const graphMeURL = "https://graph.microsoft.com/v1.0/me"

type MicrosoftProvider struct {
	config *oauth2.Config

	// overridable for tests
	userInfoURL string
}

func NewMicrosoftProvider(cfg config.MicrosoftOAuthConfig) *MicrosoftProvider {
	tenant := cfg.Tenant
	if tenant == "" {
		tenant = "common"
	}
	return &MicrosoftProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"User.Read", "offline_access"},
			Endpoint:     microsoft.AzureADEndpoint(tenant),
		},
		userInfoURL: graphMeURL,
	}
}

func (p *MicrosoftProvider) Name() string {
	return "microsoft"
}

func (p *MicrosoftProvider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (p *MicrosoftProvider) ExchangeCode(ctx context.Context, code string) (*ExchangeResult, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	info, err := p.fetchUserInfo(ctx, p.config.Client(ctx, token))
	if err != nil {
		return nil, err
	}

	return &ExchangeResult{
		User:         info,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}, nil
}

// UserInfoFromToken validates a Graph access token obtained by the SPA and
// returns the identity it is bound to.
func (p *MicrosoftProvider) UserInfoFromToken(ctx context.Context, accessToken string) (*UserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	return p.fetchUserInfo(ctx, client)
}

func (p *MicrosoftProvider) fetchUserInfo(ctx context.Context, client *http.Client) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("microsoft graph returned status %d", resp.StatusCode)
	}

	var msUser struct {
		ID                string `json:"id"`
		DisplayName       string `json:"displayName"`
		UserPrincipalName string `json:"userPrincipalName"`
		Mail              string `json:"mail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&msUser); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	email := msUser.UserPrincipalName
	if email == "" {
		email = msUser.Mail
	}
	if email == "" {
		return nil, fmt.Errorf("microsoft graph returned no email for user %s", msUser.ID)
	}

	return &UserInfo{
		Email:    email,
		Name:     msUser.DisplayName,
		ID:       msUser.ID,
		Provider: "microsoft",
	}, nil
}
