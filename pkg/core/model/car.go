// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by JSON
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
// The ORM specific tags are kept in the adapter layer though, so the
// table layout may change without touching these models.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Car models a marketplace listing as it is presented to the web
// clients. The seller and specification of a car are kept in separate
// models because they are fetched on demand (e.g., by the contact and
// detail pages) and a listing page only needs the Car fields.
type Car struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Brand        string       `json:"brand"`
	Type         CarType      `json:"type"`
	Year         int          `json:"year"`
	Mileage      int          `json:"mileage"`
	Price        float64      `json:"price"`
	Description  string       `json:"description"`
	Images       []string     `json:"images"`
	Colors       []string     `json:"colors"`
	Features     []string     `json:"features"`
	Transmission Transmission `json:"transmission"`
	FuelType     FuelType     `json:"fuelType"`
	Location     string       `json:"location"`
	UserID       uuid.UUID    `json:"userId"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Specification holds the optional technical details of a car.
// A nil field means that the seller did not provide that detail.
type Specification struct {
	EngineCapacity *float64 `json:"engineCapacity,omitempty"`
	Horsepower     *int     `json:"horsepower,omitempty"`
	Torque         *int     `json:"torque,omitempty"`
	Acceleration   *float64 `json:"acceleration,omitempty"`
	TopSpeed       *int     `json:"topSpeed,omitempty"`
	Doors          *int     `json:"doors,omitempty"`
	Seats          *int     `json:"seats,omitempty"`
	Length         *float64 `json:"length,omitempty"`
	Width          *float64 `json:"width,omitempty"`
	Height         *float64 `json:"height,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
}

// CarDetail is a car which is presented by its detail page, along with
// its specification and the users who have bookmarked it.
type CarDetail struct {
	Car
	Specification Specification `json:"specification"`
	SavedBy       []uuid.UUID   `json:"savedBy"`
}

// Listing aggregates a new car with its one seller and its one
// specification. These three parts are created together, so either
// all of them or none of them will be persisted.
type Listing struct {
	Car           Car
	Seller        Seller
	Specification Specification
}

// ErrInvalidListing is wrapped by the errors which are returned from
// the Listing.Validate method.
var ErrInvalidListing = errors.New("invalid listing")

// Validate checks the car and seller fields of a listing before it can
// be persisted. The enum fields must hold known values and numeric
// fields may not be negative. Name and brand are trimmed in place.
func (l *Listing) Validate() error {
	c := &l.Car
	c.Name = strings.TrimSpace(c.Name)
	c.Brand = strings.TrimSpace(c.Brand)
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidListing)
	case c.Brand == "":
		return fmt.Errorf("%w: empty brand", ErrInvalidListing)
	case c.Year < 1886 || c.Year > time.Now().Year()+1:
		return fmt.Errorf("%w: year %d", ErrInvalidListing, c.Year)
	case c.Mileage < 0:
		return fmt.Errorf("%w: negative mileage", ErrInvalidListing)
	case c.Price < 0:
		return fmt.Errorf("%w: negative price", ErrInvalidListing)
	}
	if err := c.Type.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidListing, err)
	}
	if err := c.Transmission.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidListing, err)
	}
	if err := c.FuelType.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidListing, err)
	}
	if strings.TrimSpace(l.Seller.Name) == "" {
		return fmt.Errorf("%w: empty seller name", ErrInvalidListing)
	}
	return nil
}
