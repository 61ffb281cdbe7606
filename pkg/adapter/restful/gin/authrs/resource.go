// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authrs realizes the authentication resource, allowing users
// to sign in with their GitHub accounts, and provides the OptionalAuth
// middleware which recognizes the session of signed in users for
// other resources.
package authrs

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/log"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/usecase/usersuc"
	"github.com/rs/xid"
)

// Cookie names which are set by this resource.
const (
	SessionCookie = "carweb_session"
	StateCookie   = "carweb_oauth_state"
)

const stateLifetime = 10 * time.Minute

// ErrStateMismatch indicates a sign-in callback which does not belong
// to a sign-in attempt of the same browser.
var ErrStateMismatch = errors.New("oauth state mismatch")

// ErrSignInFailed is reported when the identity provider rejects the
// sign-in attempt.
var ErrSignInFailed = errors.New("sign-in failed")

// Identity is an OAuth2 identity provider, such as GitHub.
type Identity interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*model.User, error)
}

// Tokens issues and verifies the session tokens.
type Tokens interface {
	Issue(s *model.Session) (string, error)
	Verify(token string) (*model.Session, error)
	Lifetime() time.Duration
}

type resource struct {
	users    *usersuc.UseCase
	tokens   Tokens
	identity Identity
	secure   bool
}

// Register instantiates a resource adapting the users use case instance
// with the relevant REST APIs including:
//  1. GET request to /api/carweb/v1/auth/github/login
//     in order to redirect to the GitHub authorization page,
//  2. GET request to /api/carweb/v1/auth/github/callback
//     in order to complete the sign-in and set the session cookie,
//  3. GET request to /api/carweb/v1/auth/me
//     in order to fetch the current session,
//  4. POST request to /api/carweb/v1/auth/logout
//     in order to clear the session cookie.
//
// The first two APIs are registered only if id is not nil. Cookies are
// marked as secure (HTTPS only) if secure is true.
func Register(
	r *gin.RouterGroup, users *usersuc.UseCase, t Tokens, id Identity,
	secure bool,
) {
	rs := &resource{users: users, tokens: t, identity: id, secure: secure}
	if id != nil {
		r.GET("auth/github/login", rs.Login)
		r.GET("auth/github/callback", rs.Callback)
	}
	r.GET("auth/me", rs.Me)
	r.POST("auth/logout", rs.Logout)
}

func (rs *resource) Login(c *gin.Context) {
	state := xid.New().String()
	rs.setCookie(c, StateCookie, state, stateLifetime)
	c.Redirect(http.StatusFound, rs.identity.AuthURL(state))
}

func (rs *resource) Callback(c *gin.Context) {
	req, ok := rs.DserCallbackReq(c)
	if !ok {
		return
	}
	rs.setCookie(c, StateCookie, "", -1)
	u, err := rs.identity.Exchange(c, req.Code)
	if err != nil {
		log.Warn(c, "github sign-in failed", log.Err("err", err))
		serdser.SerErr(c, cerr.Authentication(ErrSignInFailed))
		return
	}
	s, err := rs.users.SignIn(c, u)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	token, err := rs.tokens.Issue(s)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	rs.setCookie(c, SessionCookie, token, rs.tokens.Lifetime())
	c.Redirect(http.StatusFound, "/")
}

func (rs *resource) Me(c *gin.Context) {
	s := SessionOf(c)
	if s == nil {
		serdser.SerErr(c, cerr.Authentication(model.ErrUnauthenticated))
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) Logout(c *gin.Context) {
	rs.setCookie(c, SessionCookie, "", -1)
	c.Status(http.StatusNoContent)
}

// setCookie sets an HttpOnly cookie on the root path. A negative
// lifetime deletes the cookie.
func (rs *resource) setCookie(
	c *gin.Context, name, value string, lifetime time.Duration,
) {
	maxAge := int(lifetime / time.Second)
	if lifetime < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", rs.secure, true)
}
