// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package draftsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/adapter/db/postgres"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/tables"
	"github.com/momeni/carweb/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func Load[Q postgres.Queryer](
	ctx context.Context, q Q, userID uuid.UUID, name string,
) (*model.Draft, error) {
	var row tables.CarDraft
	err := q.GORM(ctx).Where(
		"user_id = ? AND name = ?", userID, name,
	).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	d := &model.Draft{}
	if err := json.Unmarshal([]byte(row.Data), d); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return d, nil
}

func Save[Q postgres.Queryer](
	ctx context.Context, q Q, userID uuid.UUID, name string, d *model.Draft,
) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	err = q.GORM(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"data", "updated_at",
		}),
	}).Create(&tables.CarDraft{
		UserID:    userID,
		Name:      name,
		Data:      string(data),
		UpdatedAt: time.Now().UTC(),
	}).Error
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

func Delete[Q postgres.Queryer](
	ctx context.Context, q Q, userID uuid.UUID, name string,
) error {
	err := q.GORM(ctx).Where(
		"user_id = ? AND name = ?", userID, name,
	).Delete(&tables.CarDraft{}).Error
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
