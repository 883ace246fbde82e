package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig configures an OIDCProvider.
type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OIDCProvider implements Provider against an OpenID Connect issuer.
type OIDCProvider struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	roles        *RoleMapper
}

// NewOIDCProvider discovers the issuer and prepares the code flow.
func NewOIDCProvider(ctx context.Context, cfg OIDCConfig, roles *RoleMapper) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover issuer: %w", err)
	}

	return &OIDCProvider{
		provider: provider,
		oauth2Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, oidc.ScopeOfflineAccess, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		roles:    roles,
	}, nil
}

// AuthCodeURL returns the issuer's login URL for state.
func (p *OIDCProvider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state)
}

// Exchange trades an authorization code for session tokens.
func (p *OIDCProvider) Exchange(ctx context.Context, code string) (*Tokens, error) {
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return tokensFrom(token)
}

// VerifySession validates the ID token signature, audience and expiry.
func (p *OIDCProvider) VerifySession(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, ErrNoSession
	}
	token, err := p.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	claims := map[string]any{}
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	return identityFromClaims(claims, p.roles)
}

// RefreshSession uses the refresh token to obtain a fresh ID token.
func (p *OIDCProvider) RefreshSession(ctx context.Context, refreshToken string) (*Tokens, error) {
	if refreshToken == "" {
		return nil, ErrNoSession
	}
	src := p.oauth2Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	tokens, err := tokensFrom(token)
	if err != nil {
		return nil, err
	}
	// Providers may omit the refresh token when it is not rotated.
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

func tokensFrom(token *oauth2.Token) (*Tokens, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: missing id_token", ErrNoSession)
	}
	return &Tokens{
		IDToken:      rawIDToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}, nil
}

var _ Provider = (*OIDCProvider)(nil)
