// Package identity abstracts the external identity provider. The interactive
// redirect exchange happens at Google; this package only drives it and hands
// back the verified identity tuple.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Identity is the verified tuple returned after a successful sign-in.
type Identity struct {
	Email   string
	Name    string
	Subject string
	Picture string
}

// Provider is implemented by the Google client below and by test doubles.
type Provider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

const userinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type GoogleProvider struct {
	conf *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *GoogleProvider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

// Exchange trades the callback code for tokens and fetches the userinfo
// claims.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := p.conf.Client(ctx, tok).Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var claims struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if claims.Sub == "" {
		return nil, errors.New("userinfo response missing subject")
	}
	if claims.Name == "" {
		claims.Name = "User"
	}
	return &Identity{
		Email:   claims.Email,
		Name:    claims.Name,
		Subject: claims.Sub,
		Picture: claims.Picture,
	}, nil
}
