// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// User is a registered user of the marketplace. Users are identified
// by their email address when they sign in with an identity provider.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Image    string    `json:"image"`
	GitHubID int64     `json:"githubId,omitempty"`
}

// Session is the authenticated identity which accompanies a request.
// A nil *Session represents an anonymous visitor.
type Session struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name,omitempty"`
	Image  string    `json:"image,omitempty"`
}

// ErrUnauthenticated indicates that an operation requires a session,
// but it was called anonymously.
var ErrUnauthenticated = errors.New("unauthenticated")

// Require returns ErrUnauthenticated if s is nil.
func (s *Session) Require() error {
	if s == nil {
		return ErrUnauthenticated
	}
	return nil
}

// LogValue implements the slog.LogValuer interface, so a session may be
// logged without leaking its email address.
func (s *Session) LogValue() slog.Value {
	if s == nil {
		return slog.StringValue("anonymous")
	}
	return slog.StringValue(s.UserID.String())
}
