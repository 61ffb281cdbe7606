// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"strings"
)

// CarType specifies the body type enum of a car. Its values are kept
// as upper-case strings because they are directly used as URL query
// parameter tokens and database column values.
type CarType string

// Valid values for the CarType enum.
const (
	CarTypeSUV         CarType = "SUV"
	CarTypeSedan       CarType = "SEDAN"
	CarTypeHatchback   CarType = "HATCHBACK"
	CarTypeCoupe       CarType = "COUPE"
	CarTypeConvertible CarType = "CONVERTIBLE"
	CarTypeWagon       CarType = "WAGON"
	CarTypePickup      CarType = "PICKUP"
	CarTypeMinivan     CarType = "MINIVAN"
	CarTypeSports      CarType = "SPORTS"
	CarTypeLuxury      CarType = "LUXURY"
)

// CarTypes lists all known car types in their presentation order.
var CarTypes = []CarType{
	CarTypeSUV, CarTypeSedan, CarTypeHatchback, CarTypeCoupe,
	CarTypeConvertible, CarTypeWagon, CarTypePickup, CarTypeMinivan,
	CarTypeSports, CarTypeLuxury,
}

// ErrUnknownCarType indicates that a given string may not be parsed
// as a known car type. Similar to other enum parsing errors, it does
// not carry the invalid string because the caller knows it already.
var ErrUnknownCarType = errors.New("unknown car type")

// CarTypeError indicates an invalid car type value which was found
// in a CarType variable (not during the parsing of some string).
type CarTypeError string

// Error implements the error interface.
func (e CarTypeError) Error() string {
	return fmt.Sprintf("invalid car type: %q", string(e))
}

// Validate returns nil if the CarType value is known.
// For other values, an instance of CarTypeError will be returned.
func (t CarType) Validate() error {
	for _, ct := range CarTypes {
		if t == ct {
			return nil
		}
	}
	return CarTypeError(t)
}

// ParseCarType trims and upper-cases the given token and returns the
// matching CarType. The "suv" and " Suv " tokens are both accepted.
// For unknown tokens, an empty CarType and ErrUnknownCarType will be
// returned.
func ParseCarType(token string) (CarType, error) {
	t := CarType(strings.ToUpper(strings.TrimSpace(token)))
	if t.Validate() != nil {
		return "", ErrUnknownCarType
	}
	return t, nil
}

// Transmission specifies the gearbox type of a car.
type Transmission string

// Valid values for the Transmission enum.
const (
	TransmissionManual    Transmission = "MANUAL"
	TransmissionAutomatic Transmission = "AUTOMATIC"
)

// Validate returns nil if the Transmission value is known.
func (t Transmission) Validate() error {
	switch t {
	case TransmissionManual, TransmissionAutomatic:
		return nil
	default:
		return fmt.Errorf("invalid transmission: %q", string(t))
	}
}

// FuelType specifies the fuel type of a car.
type FuelType string

// Valid values for the FuelType enum.
const (
	FuelTypePetrol   FuelType = "PETROL"
	FuelTypeDiesel   FuelType = "DIESEL"
	FuelTypeElectric FuelType = "ELECTRIC"
	FuelTypeHybrid   FuelType = "HYBRID"
)

// Validate returns nil if the FuelType value is known.
func (f FuelType) Validate() error {
	switch f {
	case FuelTypePetrol, FuelTypeDiesel, FuelTypeElectric, FuelTypeHybrid:
		return nil
	default:
		return fmt.Errorf("invalid fuel type: %q", string(f))
	}
}
