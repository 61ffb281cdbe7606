// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/adapter/db/postgres"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/tables"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
	"gorm.io/gorm"
)

// newestFirst orders cars by their creation time, breaking the ties
// by their identifiers, so pagination is deterministic.
func newestFirst(gdb *gorm.DB) *gorm.DB {
	return gdb.Order("created_at DESC").Order("id")
}

func List[Q postgres.Queryer](
	ctx context.Context, q Q, offset, limit int, types model.TypeSet,
) ([]model.Car, error) {
	gdb := q.GORM(ctx).Model(&tables.Car{})
	if !types.Empty() {
		gdb = gdb.Where("type IN ?", types.Strings())
	}
	var rows []tables.Car
	err := newestFirst(gdb).Offset(offset).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return tables.Cars(rows), nil
}

func ListAll[Q postgres.Queryer](ctx context.Context, q Q) (
	[]model.Car, error,
) {
	var rows []tables.Car
	gdb := q.GORM(ctx).Model(&tables.Car{})
	if err := newestFirst(gdb).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return tables.Cars(rows), nil
}

// likeEscaper escapes the LIKE wildcards, so a search term matches
// literally (the backslash is the default LIKE escape character).
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func Search[Q postgres.Queryer](
	ctx context.Context, q Q, term string, pr *model.PriceRange,
) ([]model.Car, error) {
	pattern := "%" + likeEscaper.Replace(term) + "%"
	gdb := q.GORM(ctx).Model(&tables.Car{}).Where(
		"(name ILIKE ? OR brand ILIKE ?)", pattern, pattern,
	)
	if pr != nil {
		if pr.Min != nil {
			if pr.MinInclusive {
				gdb = gdb.Where("price >= ?", *pr.Min)
			} else {
				gdb = gdb.Where("price > ?", *pr.Min)
			}
		}
		if pr.Max != nil {
			gdb = gdb.Where("price <= ?", *pr.Max)
		}
	}
	var rows []tables.Car
	if err := newestFirst(gdb).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return tables.Cars(rows), nil
}

func Find[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (
	*model.CarDetail, error,
) {
	gdb := q.GORM(ctx)
	var car tables.Car
	err := gdb.Where("id = ?", carID).Take(&car).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(fmt.Errorf("car %s not found", carID))
	case err != nil:
		return nil, fmt.Errorf("querying car: %w", err)
	}
	cd := &model.CarDetail{Car: car.Model()}
	var spec tables.CarSpecification
	err = gdb.Where("car_id = ?", carID).Take(&spec).Error
	switch {
	case err == nil:
		cd.Specification = spec.Model()
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("querying specification: %w", err)
	}
	cd.SavedBy = []uuid.UUID{}
	err = gdb.Model(&tables.Bookmark{}).Where(
		"car_id = ?", carID,
	).Order("created_at").Pluck("user_id", &cd.SavedBy).Error
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	return cd, nil
}

func Seller[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (
	*model.Seller, error,
) {
	var cs tables.CarSeller
	err := q.GORM(ctx).Where("car_id = ?", carID).Take(&cs).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(
			fmt.Errorf("seller of car %s not found", carID),
		)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return cs.Model(), nil
}

func Exists[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (
	bool, error,
) {
	var n int64
	err := q.GORM(ctx).Model(&tables.Car{}).Where(
		"id = ?", carID,
	).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return n > 0, nil
}

// CreateCar inserts car, generating its identifier (if it is not set
// already) and its timestamps.
func CreateCar(ctx context.Context, tx *postgres.Tx, car *model.Car) (
	uuid.UUID, error,
) {
	if car.ID == uuid.Nil {
		car.ID = uuid.New()
	}
	now := time.Now().UTC()
	car.CreatedAt, car.UpdatedAt = now, now
	row := tables.NewCar(car)
	if err := tx.GORM(ctx).Create(row).Error; err != nil {
		return uuid.Nil, fmt.Errorf("insert: %w", err)
	}
	return car.ID, nil
}

func CreateSeller(
	ctx context.Context, tx *postgres.Tx, carID uuid.UUID, s *model.Seller,
) error {
	row := tables.NewCarSeller(carID, s)
	if err := tx.GORM(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

func CreateSpecification(
	ctx context.Context,
	tx *postgres.Tx,
	carID uuid.UUID,
	s *model.Specification,
) error {
	row := tables.NewCarSpecification(carID, s)
	if err := tx.GORM(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}
