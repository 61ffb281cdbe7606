// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package draftuc_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/carweb/internal/test/memdb"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/usecase/draftuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftLifecycle(t *testing.T) {
	ctx := context.Background()
	uc := draftuc.New(memdb.New(), memdb.Drafts{})
	s := &model.Session{UserID: uuid.New()}

	d, err := uc.Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, &model.Draft{}, d, "missing draft must be empty")

	d, err = uc.AddImage(ctx, s, "/cars/a.jpg")
	require.NoError(t, err)
	d, err = uc.AddImage(ctx, s, "/cars/b.jpg")
	require.NoError(t, err)
	d, err = uc.AddImage(ctx, s, "/cars/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"/cars/a.jpg", "/cars/b.jpg"}, d.Images)

	d, err = uc.ReplaceCar(ctx, s, model.CarDraft{Name: "Civic", Brand: "Honda"})
	require.NoError(t, err)
	assert.Equal(t, "Civic", d.Car.Name)
	assert.Len(t, d.Images, 2, "replacing car may not touch the images")

	d, err = uc.RemoveImage(ctx, s, "/cars/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"/cars/b.jpg"}, d.Images)

	d, err = uc.SetImages(ctx, s, []string{"/x.jpg", "/y.jpg", "/x.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/x.jpg", "/y.jpg"}, d.Images)

	d, err = uc.ClearImages(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, d.Images)
	assert.Equal(t, "Civic", d.Car.Name)

	loaded, err := uc.Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, d, loaded)

	require.NoError(t, uc.Reset(ctx, s))
	loaded, err = uc.Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, &model.Draft{}, loaded)
}

func TestDraftsAreScopedPerUser(t *testing.T) {
	ctx := context.Background()
	uc := draftuc.New(memdb.New(), memdb.Drafts{})
	s1 := &model.Session{UserID: uuid.New()}
	s2 := &model.Session{UserID: uuid.New()}

	require.NoError(t, uc.Save(ctx, s1, &model.Draft{
		Car:    model.CarDraft{Name: "One"},
		Images: []string{"/1.jpg", "/1.jpg"},
	}))
	d1, err := uc.Load(ctx, s1)
	require.NoError(t, err)
	assert.Equal(t, []string{"/1.jpg"}, d1.Images)

	d2, err := uc.Load(ctx, s2)
	require.NoError(t, err)
	assert.Empty(t, d2.Car.Name)
	assert.Empty(t, d2.Images)
}

func TestDraftRequiresSession(t *testing.T) {
	uc := draftuc.New(memdb.New(), memdb.Drafts{})
	_, err := uc.Load(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	_, err = uc.AddImage(context.Background(), nil, "/a.jpg")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	assert.ErrorIs(t, uc.Reset(context.Background(), nil), model.ErrUnauthenticated)
}
