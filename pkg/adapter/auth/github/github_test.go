// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func fakeGitHub(t *testing.T, publicEmail string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"login":"octo","name":"","email":"` +
			publicEmail + `","avatar_url":"https://avatars.example.com/42"}`))
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"email":"old@example.com","primary":false,"verified":true},
			{"email":"Octo@Example.com","primary":true,"verified":true}
		]`))
	})
	return httptest.NewServer(mux)
}

func newProvider(srv *httptest.Server) *Provider {
	ep := oauth2.Endpoint{
		AuthURL:  srv.URL + "/login/oauth/authorize",
		TokenURL: srv.URL + "/login/oauth/access_token",
	}
	return New("cid", "secret", "http://localhost/cb", WithEndpoint(ep, srv.URL))
}

func TestAuthURL(t *testing.T) {
	p := New("cid", "secret", "http://localhost/cb")
	u, err := url.Parse(p.AuthURL("st4te"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "st4te", q.Get("state"))
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "http://localhost/cb", q.Get("redirect_uri"))
}

func TestExchangePublicEmail(t *testing.T) {
	srv := fakeGitHub(t, "pub@example.com")
	defer srv.Close()
	u, err := newProvider(srv).Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "pub@example.com", u.Email)
	assert.Equal(t, "octo", u.Name, "login is used for an empty name")
	assert.Equal(t, int64(42), u.GitHubID)
}

func TestExchangePrimaryEmail(t *testing.T) {
	srv := fakeGitHub(t, "")
	defer srv.Close()
	u, err := newProvider(srv).Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "octo@example.com", u.Email)
}
