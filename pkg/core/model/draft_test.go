// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftListing(t *testing.T) {
	d := &model.Draft{Car: model.CarDraft{
		Name: " Golf ", Brand: "VW", Type: model.CarTypeHatchback,
		Year: 2019, Transmission: model.TransmissionManual,
		FuelType: model.FuelTypeDiesel, Seller: model.Seller{Name: "Ann"},
	}}
	assert.True(t, d.AddImage("/a.jpg"))
	assert.False(t, d.AddImage("/a.jpg"))
	assert.False(t, d.AddImage(""))
	assert.True(t, d.AddImage("/b.jpg"))
	assert.True(t, d.RemoveImage("/a.jpg"))
	assert.False(t, d.RemoveImage("/a.jpg"))

	owner := uuid.New()
	l, err := d.Listing(owner)
	require.NoError(t, err)
	require.NoError(t, l.Validate())
	assert.Equal(t, "Golf", l.Car.Name)
	assert.Equal(t, owner, l.Car.UserID)
	assert.Equal(t, []string{"/b.jpg"}, l.Car.Images)
	assert.Equal(t, model.DefaultSellerImage, l.Seller.Image)

	d.Car.FuelType = "STEAM"
	_, err = d.Listing(owner)
	assert.ErrorIs(t, err, model.ErrInvalidListing)
}

func TestListingValidate(t *testing.T) {
	valid := func() *model.Listing {
		return &model.Listing{
			Car: model.Car{
				Name: "Model 3", Brand: "Tesla", Type: model.CarTypeSedan,
				Year: 2022, Transmission: model.TransmissionAutomatic,
				FuelType: model.FuelTypeElectric,
			},
			Seller: model.Seller{Name: "Bob"},
		}
	}
	require.NoError(t, valid().Validate())
	for name, mutate := range map[string]func(l *model.Listing){
		"empty name":     func(l *model.Listing) { l.Car.Name = "  " },
		"empty brand":    func(l *model.Listing) { l.Car.Brand = "" },
		"future year":    func(l *model.Listing) { l.Car.Year = time.Now().Year() + 2 },
		"negative price": func(l *model.Listing) { l.Car.Price = -1 },
		"unknown type":   func(l *model.Listing) { l.Car.Type = "TANK" },
		"no seller":      func(l *model.Listing) { l.Seller.Name = "" },
	} {
		l := valid()
		mutate(l)
		assert.ErrorIs(t, l.Validate(), model.ErrInvalidListing, name)
	}
}

func TestContactMessageValidate(t *testing.T) {
	msg := &model.ContactMessage{
		FirstName: " Sam ", Email: "sam@example.com", Content: "Is it sold?",
	}
	require.NoError(t, msg.Validate())
	assert.Equal(t, "Sam", msg.FirstName)

	msg.Email = "not-an-email"
	assert.ErrorIs(t, msg.Validate(), model.ErrInvalidContactMessage)
}
