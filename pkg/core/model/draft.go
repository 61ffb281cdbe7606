// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// DraftName is the name of the draft which keeps the details of a new
// car while its owner is filling the add-car form.
const DraftName = "new-car-details"

// CarDraft contains every field of a listing which may be filled by
// a user (or generated by the autofill operation) before creation.
type CarDraft struct {
	Name          string        `json:"name"`
	Brand         string        `json:"brand"`
	Type          CarType       `json:"type"`
	Year          int           `json:"year"`
	Mileage       int           `json:"mileage"`
	Price         float64       `json:"price"`
	Description   string        `json:"description"`
	Colors        []string      `json:"colors"`
	Features      []string      `json:"features"`
	Transmission  Transmission  `json:"transmission"`
	FuelType      FuelType      `json:"fuelType"`
	Location      string        `json:"location"`
	Seller        Seller        `json:"seller"`
	Specification Specification `json:"specification"`
}

// ValidateEnums ensures that the enum fields of cd hold known values.
// Other fields are checked when a listing is created from the draft.
func (cd *CarDraft) ValidateEnums() error {
	if err := cd.Type.Validate(); err != nil {
		return err
	}
	if err := cd.Transmission.Validate(); err != nil {
		return err
	}
	return cd.FuelType.Validate()
}

// Draft is the persisted state of the add-car form of one user.
// It consists of the car fields and the ordered list of the uploaded
// image paths. Other form states (such as a pending upload progress)
// are not persisted.
type Draft struct {
	Car    CarDraft `json:"car"`
	Images []string `json:"images"`
}

// AddImage appends path to the images list unless it exists already.
// It reports whether the list was changed.
func (d *Draft) AddImage(path string) bool {
	if path == "" || slices.Contains(d.Images, path) {
		return false
	}
	d.Images = append(d.Images, path)
	return true
}

// RemoveImage removes path from the images list, keeping the order of
// other images. It reports whether the list was changed.
func (d *Draft) RemoveImage(path string) bool {
	i := slices.Index(d.Images, path)
	if i < 0 {
		return false
	}
	d.Images = slices.Delete(d.Images, i, i+1)
	return true
}

// Listing converts d into a new listing which is owned by the userID
// user. The images of the draft become the car images.
func (d *Draft) Listing(userID uuid.UUID) (*Listing, error) {
	if err := d.Car.ValidateEnums(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidListing, err)
	}
	cd := d.Car
	l := &Listing{
		Car: Car{
			Name:         cd.Name,
			Brand:        cd.Brand,
			Type:         cd.Type,
			Year:         cd.Year,
			Mileage:      cd.Mileage,
			Price:        cd.Price,
			Description:  cd.Description,
			Images:       slices.Clone(d.Images),
			Colors:       slices.Clone(cd.Colors),
			Features:     slices.Clone(cd.Features),
			Transmission: cd.Transmission,
			FuelType:     cd.FuelType,
			Location:     cd.Location,
			UserID:       userID,
		},
		Seller:        cd.Seller,
		Specification: cd.Specification,
	}
	if l.Seller.Image == "" {
		l.Seller.Image = DefaultSellerImage
	}
	return l, nil
}
