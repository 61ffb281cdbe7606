// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bookmarksrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/adapter/db/postgres"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/tables"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
	"gorm.io/gorm/clause"
)

// ErrCarNotFound is reported if a missing car is bookmarked.
var ErrCarNotFound = errors.New("car not found")

func IsSaved[Q postgres.Queryer](
	ctx context.Context, q Q, userID, carID uuid.UUID,
) (bool, error) {
	var n int64
	err := q.GORM(ctx).Model(&tables.Bookmark{}).Where(
		"user_id = ? AND car_id = ?", userID, carID,
	).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return n > 0, nil
}

// List returns the cars which are bookmarked by the userID user,
// ordered by the car creation times (newest first).
func List[Q postgres.Queryer](
	ctx context.Context, q Q, userID uuid.UUID,
) ([]model.Car, error) {
	var rows []tables.Car
	err := q.GORM(ctx).Model(&tables.Car{}).Joins(
		"JOIN bookmarks b ON b.car_id = cars.id AND b.user_id = ?",
		userID,
	).Order("cars.created_at DESC").Order("cars.id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return tables.Cars(rows), nil
}

func Save(ctx context.Context, tx *postgres.Tx, userID, carID uuid.UUID) error {
	err := tx.GORM(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&tables.Bookmark{
		UserID:    userID,
		CarID:     carID,
		CreatedAt: time.Now().UTC(),
	}).Error
	switch {
	case postgres.IsForeignKeyViolation(err):
		return cerr.NotFound(ErrCarNotFound)
	case err != nil:
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

func Unsave(ctx context.Context, tx *postgres.Tx, userID, carID uuid.UUID) error {
	err := tx.GORM(ctx).Where(
		"user_id = ? AND car_id = ?", userID, carID,
	).Delete(&tables.Bookmark{}).Error
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
