package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jesterfour4/higher-ground-care/internal/config"
)

// CodeExchanger turns an OAuth authorization code into a provider identity.
type CodeExchanger interface {
	Exchange(ctx context.Context, code string) (*OAuthUser, error)
}

// OAuthService exchanges authorization codes against the configured
// provider's token endpoint and fetches the userinfo document.
type OAuthService struct {
	client *resty.Client
	cfg    *config.Config
}

func NewOAuthService(cfg *config.Config) *OAuthService {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(0) // one attempt per login; the user can just retry
	return &OAuthService{client: client, cfg: cfg}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	IDToken     string `json:"id_token"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

type userInfoResponse struct {
	Sub         string `json:"sub"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	Picture     string `json:"picture"`
	PhoneNumber string `json:"phone_number"`
}

// Exchange swaps the authorization code for an access token, then loads the
// userinfo document for the signed-in account.
func (s *OAuthService) Exchange(ctx context.Context, code string) (*OAuthUser, error) {
	var token tokenResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "authorization_code",
			"code":          code,
			"client_id":     s.cfg.OAuthClientID,
			"client_secret": s.cfg.OAuthClientSecret,
			"redirect_uri":  s.cfg.OAuthRedirectURL,
		}).
		SetResult(&token).
		Post(s.cfg.OAuthTokenURL)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	if resp.IsError() || token.AccessToken == "" {
		if token.Error != "" {
			return nil, fmt.Errorf("token exchange failed: %s (%s)", token.Error, token.ErrorDesc)
		}
		return nil, fmt.Errorf("token exchange failed: status %d", resp.StatusCode())
	}

	var info userInfoResponse
	resp, err = s.client.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&info).
		Get(s.cfg.OAuthUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo fetch failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("userinfo fetch failed: status %d", resp.StatusCode())
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response missing email")
	}

	return &OAuthUser{
		Subject:    info.Sub,
		Email:      info.Email,
		Name:       info.Name,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		Picture:    info.Picture,
		Phone:      info.PhoneNumber,
		Provider:   s.cfg.OAuthProvider,
	}, nil
}
