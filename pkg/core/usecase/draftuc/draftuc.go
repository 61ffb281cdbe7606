// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package draftuc contains the drafts UseCase which keeps the add-car
// form state of each user, including the car fields and the uploaded
// images, until the listing is created or the draft is reset.
// Each user has their own draft, so concurrent users never observe
// each other images or fields.
package draftuc

import (
	"context"
	"fmt"

	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// UseCase represents a drafts use case.
type UseCase struct {
	pool     repo.Pool
	draftsrp repo.Drafts
}

// New instantiates a drafts use case.
func New(p repo.Pool, d repo.Drafts) *UseCase {
	return &UseCase{pool: p, draftsrp: d}
}

// Load use case returns the draft of the s session user. A missing
// draft is reported as an empty draft.
func (uc *UseCase) Load(
	ctx context.Context, s *model.Session,
) (d *model.Draft, err error) {
	if err = s.Require(); err != nil {
		return nil, cerr.Authentication(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		d, err = uc.draftsrp.Conn(c).Load(ctx, s.UserID, model.DraftName)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading draft: %w", err)
	}
	if d == nil {
		d = &model.Draft{}
	}
	return d, nil
}

// Save use case replaces the whole draft of the s session user with d.
// Fields are not validated because a draft may be incomplete, however,
// duplicate images are dropped.
func (uc *UseCase) Save(
	ctx context.Context, s *model.Session, d *model.Draft,
) error {
	if err := s.Require(); err != nil {
		return cerr.Authentication(err)
	}
	nd := &model.Draft{Car: d.Car}
	for _, img := range d.Images {
		nd.AddImage(img)
	}
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		err := uc.draftsrp.Conn(c).Save(ctx, s.UserID, model.DraftName, nd)
		if err != nil {
			return fmt.Errorf("saving draft: %w", err)
		}
		return nil
	})
}

// ReplaceCar use case replaces the car part of the draft, keeping its
// images, and returns the updated draft.
func (uc *UseCase) ReplaceCar(
	ctx context.Context, s *model.Session, cd model.CarDraft,
) (*model.Draft, error) {
	return uc.update(ctx, s, func(d *model.Draft) bool {
		d.Car = cd
		return true
	})
}

// SetImages use case replaces the images of the draft, keeping the
// first occurrence of each duplicate path.
func (uc *UseCase) SetImages(
	ctx context.Context, s *model.Session, images []string,
) (*model.Draft, error) {
	return uc.update(ctx, s, func(d *model.Draft) bool {
		d.Images = nil
		for _, img := range images {
			d.AddImage(img)
		}
		return true
	})
}

// AddImage use case appends path to the draft images, unless it was
// added before.
func (uc *UseCase) AddImage(
	ctx context.Context, s *model.Session, path string,
) (*model.Draft, error) {
	return uc.update(ctx, s, func(d *model.Draft) bool {
		return d.AddImage(path)
	})
}

// RemoveImage use case removes path from the draft images.
func (uc *UseCase) RemoveImage(
	ctx context.Context, s *model.Session, path string,
) (*model.Draft, error) {
	return uc.update(ctx, s, func(d *model.Draft) bool {
		return d.RemoveImage(path)
	})
}

// ClearImages use case removes all images of the draft, keeping its
// car fields.
func (uc *UseCase) ClearImages(
	ctx context.Context, s *model.Session,
) (*model.Draft, error) {
	return uc.update(ctx, s, func(d *model.Draft) bool {
		changed := len(d.Images) > 0
		d.Images = nil
		return changed
	})
}

// Reset use case removes the draft of the s session user. It is called
// after a listing is created from the draft or when the user discards
// the form.
func (uc *UseCase) Reset(ctx context.Context, s *model.Session) error {
	if err := s.Require(); err != nil {
		return cerr.Authentication(err)
	}
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		err := uc.draftsrp.Conn(c).Delete(ctx, s.UserID, model.DraftName)
		if err != nil {
			return fmt.Errorf("deleting draft: %w", err)
		}
		return nil
	})
}

// update loads the draft, passes it to the modify function, and stores
// it again if modify reports a change. All steps run in a transaction,
// so concurrent updates of one user may not lose each other changes.
func (uc *UseCase) update(
	ctx context.Context, s *model.Session,
	modify func(d *model.Draft) bool,
) (d *model.Draft, err error) {
	if err = s.Require(); err != nil {
		return nil, cerr.Authentication(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.draftsrp.Tx(tx)
			d, err = q.Load(ctx, s.UserID, model.DraftName)
			if err != nil {
				return fmt.Errorf("loading draft: %w", err)
			}
			if d == nil {
				d = &model.Draft{}
			}
			if !modify(d) {
				return nil
			}
			err = q.Save(ctx, s.UserID, model.DraftName, d)
			if err != nil {
				return fmt.Errorf("saving draft: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
