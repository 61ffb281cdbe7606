// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersuc contains the users UseCase which registers the users
// who sign in with an identity provider and finds their profiles.
package usersuc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/log"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// ErrNoEmail indicates that an identity provider did not report any
// email address for a user.
var ErrNoEmail = errors.New("identity has no email address")

// UseCase represents a users use case.
type UseCase struct {
	pool    repo.Pool
	usersrp repo.Users
}

// New instantiates a users use case.
func New(p repo.Pool, u repo.Users) *UseCase {
	return &UseCase{pool: p, usersrp: u}
}

// SignIn use case registers the u user (or updates its name, image,
// and GitHub ID if its email is registered already) and returns the
// session of the stored user.
func (uc *UseCase) SignIn(
	ctx context.Context, u *model.User,
) (s *model.Session, err error) {
	if strings.TrimSpace(u.Email) == "" {
		return nil, cerr.Authentication(ErrNoEmail)
	}
	if u.Image == "" {
		u.Image = model.DefaultSellerImage
	}
	var stored *model.User
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			stored, err = uc.usersrp.Tx(tx).Upsert(ctx, u)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}
	s = &model.Session{
		UserID: stored.ID,
		Email:  stored.Email,
		Name:   stored.Name,
		Image:  stored.Image,
	}
	log.Info(ctx, "user signed in", log.Valuer("session", s))
	return s, nil
}

// Profile use case returns the user of the s session.
func (uc *UseCase) Profile(
	ctx context.Context, s *model.Session,
) (u *model.User, err error) {
	if err = s.Require(); err != nil {
		return nil, cerr.Authentication(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = uc.usersrp.Conn(c).Find(ctx, s.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}
