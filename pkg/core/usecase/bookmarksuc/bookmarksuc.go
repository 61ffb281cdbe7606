// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bookmarksuc contains the bookmarks UseCase which lets the
// signed in users save (and unsave) cars for later review.
package bookmarksuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/log"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// ErrCarNotFound indicates that a missing car was asked to be toggled.
var ErrCarNotFound = errors.New("car not found")

// UseCase represents a bookmarks use case.
type UseCase struct {
	pool        repo.Pool
	bookmarksrp repo.Bookmarks
	carsrp      repo.Cars
}

// New instantiates a bookmarks use case.
func New(p repo.Pool, b repo.Bookmarks, c repo.Cars) *UseCase {
	return &UseCase{pool: p, bookmarksrp: b, carsrp: c}
}

// Toggle use case saves the carID car for the s session user if it was
// not saved before, and unsaves it otherwise. The returned saved flag
// reports the new state. Two consecutive toggles restore the original
// state. An anonymous session is rejected without changing anything.
func (uc *UseCase) Toggle(
	ctx context.Context, s *model.Session, carID uuid.UUID,
) (saved bool, err error) {
	if err = s.Require(); err != nil {
		return false, cerr.Authentication(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			ok, err := uc.carsrp.Tx(tx).Exists(ctx, carID)
			if err != nil {
				return fmt.Errorf("checking car existence: %w", err)
			}
			if !ok {
				return cerr.NotFound(ErrCarNotFound)
			}
			q := uc.bookmarksrp.Tx(tx)
			saved, err = q.IsSaved(ctx, s.UserID, carID)
			if err != nil {
				return fmt.Errorf("checking bookmark: %w", err)
			}
			if saved {
				err = q.Unsave(ctx, s.UserID, carID)
			} else {
				err = q.Save(ctx, s.UserID, carID)
			}
			if err != nil {
				return fmt.Errorf("changing bookmark: %w", err)
			}
			saved = !saved
			return nil
		})
	})
	if err != nil {
		return false, err
	}
	log.Debug(
		ctx, "bookmark is toggled",
		log.Valuer("session", s), log.UUID("car", carID),
		slog.Bool("saved", saved),
	)
	return saved, nil
}

// List use case returns the cars which are saved by the s session user.
func (uc *UseCase) List(
	ctx context.Context, s *model.Session,
) (cars []model.Car, err error) {
	if err = s.Require(); err != nil {
		return nil, cerr.Authentication(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		cars, err = uc.bookmarksrp.Conn(c).List(ctx, s.UserID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	return cars, nil
}

// IsSaved use case reports whether the s session user has saved the
// carID car. Anonymous sessions have no saved cars.
func (uc *UseCase) IsSaved(
	ctx context.Context, s *model.Session, carID uuid.UUID,
) (saved bool, err error) {
	if s == nil {
		return false, nil
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		saved, err = uc.bookmarksrp.Conn(c).IsSaved(ctx, s.UserID, carID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("checking bookmark: %w", err)
	}
	return saved, nil
}
