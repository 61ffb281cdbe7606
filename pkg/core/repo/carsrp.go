// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/model"
)

// CarsConnQueryer lists the cars queries which may be run on a Conn.
type CarsConnQueryer interface {
	CarsQueryer
}

// CarsTxQueryer lists the cars queries which may be run on a Tx.
// The creation of a listing takes three steps which must run in one
// transaction, so creation methods are only available here.
type CarsTxQueryer interface {
	CarsQueryer

	// CreateCar inserts car and fills its ID, CreatedAt, and UpdatedAt
	// fields. The generated ID is returned too.
	CreateCar(ctx context.Context, car *model.Car) (uuid.UUID, error)

	// CreateSeller inserts the seller of the carID car.
	CreateSeller(ctx context.Context, carID uuid.UUID, s *model.Seller) error

	// CreateSpecification inserts the specification of the carID car.
	CreateSpecification(
		ctx context.Context, carID uuid.UUID, s *model.Specification,
	) error
}

// CarsQueryer lists the read-only cars queries.
type CarsQueryer interface {
	// List returns at most limit cars, skipping the first offset cars,
	// ordered by their creation time (newest first). An empty types
	// set applies no type restriction.
	List(
		ctx context.Context, offset, limit int, types model.TypeSet,
	) ([]model.Car, error)

	// ListAll returns all cars, newest first.
	ListAll(ctx context.Context) ([]model.Car, error)

	// Search returns cars which their name or brand contains term
	// (case-insensitively) and their price is in the pr range.
	// A nil pr applies no price restriction.
	Search(
		ctx context.Context, term string, pr *model.PriceRange,
	) ([]model.Car, error)

	// Find returns the carID car with its specification and the
	// identifiers of users who saved it. A missing car causes a
	// cerr.NotFound error.
	Find(ctx context.Context, carID uuid.UUID) (*model.CarDetail, error)

	// Seller returns the seller of the carID car. A missing seller
	// causes a cerr.NotFound error.
	Seller(ctx context.Context, carID uuid.UUID) (*model.Seller, error)

	// Exists reports whether the carID car exists.
	Exists(ctx context.Context, carID uuid.UUID) (bool, error)
}

// Cars is the cars repository.
type Cars interface {
	Conn(Conn) CarsConnQueryer
	Tx(Tx) CarsTxQueryer
}
