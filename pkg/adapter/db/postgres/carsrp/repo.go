// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrp implements the repo.Cars interface for PostgreSQL.
// Each query is implemented as a generic function, like List, which
// accepts both of *postgres.Conn and *postgres.Tx, so connQueryer and
// txQueryer types may delegate to the same implementation.
package carsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/adapter/db/postgres"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// Repo is the cars repository. It is stateless and may be shared.
type Repo struct {
}

// New instantiates a cars repository.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn wraps c (which must be a *postgres.Conn) as a cars queryer.
func (cars *Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) List(
	ctx context.Context, offset, limit int, types model.TypeSet,
) ([]model.Car, error) {
	return List(ctx, cq.Conn, offset, limit, types)
}

func (cq connQueryer) ListAll(ctx context.Context) ([]model.Car, error) {
	return ListAll(ctx, cq.Conn)
}

func (cq connQueryer) Search(
	ctx context.Context, term string, pr *model.PriceRange,
) ([]model.Car, error) {
	return Search(ctx, cq.Conn, term, pr)
}

func (cq connQueryer) Find(ctx context.Context, carID uuid.UUID) (
	*model.CarDetail, error,
) {
	return Find(ctx, cq.Conn, carID)
}

func (cq connQueryer) Seller(ctx context.Context, carID uuid.UUID) (
	*model.Seller, error,
) {
	return Seller(ctx, cq.Conn, carID)
}

func (cq connQueryer) Exists(ctx context.Context, carID uuid.UUID) (
	bool, error,
) {
	return Exists(ctx, cq.Conn, carID)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx wraps tx (which must be a *postgres.Tx) as a cars queryer.
func (cars *Repo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) List(
	ctx context.Context, offset, limit int, types model.TypeSet,
) ([]model.Car, error) {
	return List(ctx, tq.Tx, offset, limit, types)
}

func (tq txQueryer) ListAll(ctx context.Context) ([]model.Car, error) {
	return ListAll(ctx, tq.Tx)
}

func (tq txQueryer) Search(
	ctx context.Context, term string, pr *model.PriceRange,
) ([]model.Car, error) {
	return Search(ctx, tq.Tx, term, pr)
}

func (tq txQueryer) Find(ctx context.Context, carID uuid.UUID) (
	*model.CarDetail, error,
) {
	return Find(ctx, tq.Tx, carID)
}

func (tq txQueryer) Seller(ctx context.Context, carID uuid.UUID) (
	*model.Seller, error,
) {
	return Seller(ctx, tq.Tx, carID)
}

func (tq txQueryer) Exists(ctx context.Context, carID uuid.UUID) (
	bool, error,
) {
	return Exists(ctx, tq.Tx, carID)
}

func (tq txQueryer) CreateCar(ctx context.Context, car *model.Car) (
	uuid.UUID, error,
) {
	return CreateCar(ctx, tq.Tx, car)
}

func (tq txQueryer) CreateSeller(
	ctx context.Context, carID uuid.UUID, s *model.Seller,
) error {
	return CreateSeller(ctx, tq.Tx, carID, s)
}

func (tq txQueryer) CreateSpecification(
	ctx context.Context, carID uuid.UUID, s *model.Specification,
) error {
	return CreateSpecification(ctx, tq.Tx, carID, s)
}
