// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package session issues and verifies the carweb session tokens.
// A session token is an HS256 signed JWT which carries the user ID as
// its subject and the email, name, and image of that user as private
// claims, so a request may be authenticated without a database lookup.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/model"
)

// MinSecretLen is the minimum accepted length of the signing secret.
const MinSecretLen = 16

// ErrInvalidToken is wrapped by all token verification errors.
var ErrInvalidToken = errors.New("invalid session token")

// Manager creates and verifies the session tokens.
type Manager struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
	now      func() time.Time
}

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// New instantiates a Manager which signs tokens with secret and marks
// them with the issuer. Tokens expire after the lifetime duration.
func New(secret, issuer string, lifetime time.Duration) (*Manager, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf(
			"session secret must have at least %d characters",
			MinSecretLen,
		)
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("lifetime (%v) is not positive", lifetime)
	}
	return &Manager{
		secret:   []byte(secret),
		issuer:   issuer,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Lifetime returns the validity duration of the issued tokens.
func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

// Issue creates a signed token for the s session.
func (m *Manager) Issue(s *model.Session) (string, error) {
	now := m.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
		Email: s.Email,
		Name:  s.Name,
		Image: s.Image,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer, and expiry of the token and
// returns its session.
func (m *Manager) Verify(token string) (*model.Session, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(
		token, c,
		func(*jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}
	return &model.Session{
		UserID: id,
		Email:  c.Email,
		Name:   c.Name,
		Image:  c.Image,
	}, nil
}
