// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp

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
	"gorm.io/gorm/clause"
)

func take[Q postgres.Queryer](
	ctx context.Context, q Q, query string, arg any,
) (*model.User, error) {
	var u tables.User
	err := q.GORM(ctx).Where(query, arg).Take(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(errors.New("user not found"))
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return u.Model(), nil
}

func FindByEmail[Q postgres.Queryer](
	ctx context.Context, q Q, email string,
) (*model.User, error) {
	return take(ctx, q, "email = ?", strings.ToLower(email))
}

func Find[Q postgres.Queryer](
	ctx context.Context, q Q, userID uuid.UUID,
) (*model.User, error) {
	return take(ctx, q, "id = ?", userID)
}

// Upsert inserts u or updates the name, image, and GitHub identifier
// of the existing user which has the same (lower-cased) email address.
// The identifier of an existing user is preserved.
func Upsert(ctx context.Context, tx *postgres.Tx, u *model.User) (
	*model.User, error,
) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if email == "" {
		return nil, cerr.BadRequest(errors.New("user has no email"))
	}
	now := time.Now().UTC()
	row := &tables.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      u.Name,
		Image:     u.Image,
		GitHubID:  u.GitHubID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := tx.GORM(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "image", "github_id", "updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert: %w", err)
	}
	return FindByEmail(ctx, tx, email)
}
