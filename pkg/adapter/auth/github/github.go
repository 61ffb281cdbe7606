// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package github implements the GitHub OAuth2 authorization code flow.
// The Provider redirects users to GitHub and exchanges the returned
// code for their profiles, including their primary verified email
// address which identifies a carweb user.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/momeni/carweb/pkg/core/model"
	"golang.org/x/oauth2"
	ghendpoint "golang.org/x/oauth2/github"
)

// DefaultAPIURL is the GitHub REST API base URL.
const DefaultAPIURL = "https://api.github.com"

// ErrNoVerifiedEmail indicates that a GitHub user has no public email
// and no verified primary email either.
var ErrNoVerifiedEmail = errors.New("github user has no verified email")

// Provider performs the GitHub OAuth2 flow.
type Provider struct {
	config *oauth2.Config
	apiURL string
}

// Option is a functional option for the Provider.
type Option func(p *Provider)

// WithEndpoint replaces the GitHub OAuth2 endpoint and the REST API
// base URL. It is useful for testing with a fake GitHub server.
func WithEndpoint(ep oauth2.Endpoint, apiURL string) Option {
	return func(p *Provider) {
		p.config.Endpoint = ep
		p.apiURL = strings.TrimSuffix(apiURL, "/")
	}
}

// New instantiates a Provider for the clientID OAuth app. The
// callbackURL must match the callback URL of the app.
func New(clientID, clientSecret, callbackURL string, opts ...Option) *Provider {
	p := &Provider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     ghendpoint.Endpoint,
		},
		apiURL: DefaultAPIURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AuthURL returns the GitHub authorization URL which carries state.
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type ghUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type ghEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Exchange trades the authorization code for a token and fetches the
// GitHub profile of its user. The returned user has no ID because it
// is not registered yet.
func (p *Provider) Exchange(ctx context.Context, code string) (*model.User, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}
	client := p.config.Client(ctx, tok)
	var gu ghUser
	if err := p.get(ctx, client, "/user", &gu); err != nil {
		return nil, err
	}
	if gu.ID == 0 {
		return nil, errors.New("github returned a user with zero ID")
	}
	email := gu.Email
	if email == "" {
		var emails []ghEmail
		if err := p.get(ctx, client, "/user/emails", &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
		if email == "" {
			return nil, ErrNoVerifiedEmail
		}
	}
	name := gu.Name
	if name == "" {
		name = gu.Login
	}
	return &model.User{
		Email:    strings.ToLower(email),
		Name:     name,
		Image:    gu.AvatarURL,
		GitHubID: gu.ID,
	}, nil
}

func (p *Provider) get(
	ctx context.Context, client *http.Client, path string, v any,
) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling github %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding github %s: %w", path, err)
	}
	return nil
}
