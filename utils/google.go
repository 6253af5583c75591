package utils

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var GoogleScopes = []string{
	oauth2api.UserinfoEmailScope,
	oauth2api.UserinfoProfileScope,
	calendar.CalendarScope,
}

// GoogleProfile is the part of the Google user info the app keeps.
type GoogleProfile struct {
	ID      string
	Name    string
	Email   string
	Picture string
}

// OAuthProvider is the sign in flow used by the auth controller.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Profile(ctx context.Context, tok *oauth2.Token) (*GoogleProfile, error)
	TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource
}

// OAuth is nil when Google credentials are not configured.
var OAuth OAuthProvider

type GoogleOAuth struct {
	Config *oauth2.Config
}

func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{Config: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       GoogleScopes,
		Endpoint:     google.Endpoint,
	}}
}

// AuthCodeURL asks for offline access with a forced consent screen so a
// refresh token is always returned.
func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.Config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("response_type", "code"),
	)
}

func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := g.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google: exchange code: %w", err)
	}
	return tok, nil
}

func (g *GoogleOAuth) Profile(ctx context.Context, tok *oauth2.Token) (*GoogleProfile, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(g.Config.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("google: userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google: userinfo: %w", err)
	}
	return &GoogleProfile{
		ID:      info.Id,
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}, nil
}

func (g *GoogleOAuth) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return g.Config.TokenSource(ctx, tok)
}

// GrantedScope returns the space separated scope list Google sent back with the token.
func GrantedScope(tok *oauth2.Token) string {
	if scope, ok := tok.Extra("scope").(string); ok {
		return scope
	}
	return ""
}

// HasScope reports whether scope appears in the space separated list granted.
func HasScope(granted, scope string) bool {
	for _, s := range strings.Fields(granted) {
		if s == scope {
			return true
		}
	}
	return false
}
