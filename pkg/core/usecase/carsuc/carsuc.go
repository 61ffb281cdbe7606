// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsuc contains the cars UseCase which implements the
// listing query service. It supports:
//  1. Listing the cars page by page, filtered by their types,
//  2. Listing all cars (e.g., for the sitemap),
//  3. Searching cars by a text term and a price range,
//  4. Finding a car (with its details) or its seller,
//  5. Creating a listing atomically,
//  6. Sending a contact message to the seller of a car.
//
// Listing results are kept in a Cache which is invalidated whenever a
// new listing is created.
package carsuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/log"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// CacheKeyPrefix is the common prefix of all cars cache keys.
const CacheKeyPrefix = "cars:"

// DefaultCacheTTL is the lifetime of the cached listings when it is
// not configured explicitly.
const DefaultCacheTTL = 24 * time.Hour

// ErrEmptySearchTerm indicates that a search was requested without any
// search term.
var ErrEmptySearchTerm = errors.New("empty search term")

// ErrCarNotFound is wrapped by the NotFound errors of the cars which
// are referenced by their IDs, but do not exist.
var ErrCarNotFound = errors.New("car not found")

// Cache is the listing results cache. Values are kept until their ttl
// duration elapses or they are invalidated by their key prefix.
type Cache interface {
	Get(key string) ([]model.Car, bool)
	Set(key string, cars []model.Car, ttl time.Duration)
	InvalidatePrefix(prefix string) int
}

// UseCase represents a cars use case. It holds a database connection
// pool, the cars and contacts repositories (to be guided with the DB
// pool), the listing cache, and the cars use case specific settings.
type UseCase struct {
	pool       repo.Pool
	carsrp     repo.Cars
	contactsrp repo.Contacts
	cache      Cache

	cacheTTL time.Duration
}

// New instantiates a cars use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool, c repo.Cars, cm repo.Contacts, cache Cache,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, carsrp: c, contactsrp: cm, cache: cache}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.cacheTTL == 0 {
		uc.cacheTTL = DefaultCacheTTL
	}
	return uc, nil
}

// CacheTTL returns the configured lifetime of the cached listings.
func (cars *UseCase) CacheTTL() time.Duration {
	return cars.cacheTTL
}

func pageKey(page int, types model.TypeSet) string {
	return CacheKeyPrefix + "page:" + strconv.Itoa(page) + ":" + types.Key()
}

const allKey = CacheKeyPrefix + "all"

// cloneCars deep copies list, so callers and the cache never share
// a backing array.
func cloneCars(list []model.Car) []model.Car {
	if list == nil {
		return nil
	}
	out := make([]model.Car, len(list))
	for i, c := range list {
		c.Images = slices.Clone(c.Images)
		c.Colors = slices.Clone(c.Colors)
		c.Features = slices.Clone(c.Features)
		out[i] = c
	}
	return out
}

// ListPage use case returns the page-th page of cars (newest first)
// which their types are in the typeFilter comma-separated list.
// A page less than one is taken as the first page. The typeFilter
// tokens are canonicalized, ignoring the unknown tokens, and an empty
// canonical set (or the "all" literal) matches all types.
func (cars *UseCase) ListPage(
	ctx context.Context, page int, typeFilter string,
) (list []model.Car, err error) {
	page = model.NormalizePage(page)
	types := model.ParseTypeSet(typeFilter)
	key := pageKey(page, types)
	if list, ok := cars.cache.Get(key); ok {
		return cloneCars(list), nil
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		list, err = q.List(
			ctx, model.PageOffset(page), model.ListingPageSize, types,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing page %d: %w", page, err)
	}
	cars.cache.Set(key, cloneCars(list), cars.cacheTTL)
	return list, nil
}

// ListAll use case returns all cars, newest first.
func (cars *UseCase) ListAll(ctx context.Context) (list []model.Car, err error) {
	if list, ok := cars.cache.Get(allKey); ok {
		return cloneCars(list), nil
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		list, err = cars.carsrp.Conn(c).ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing all cars: %w", err)
	}
	cars.cache.Set(allKey, cloneCars(list), cars.cacheTTL)
	return list, nil
}

// Search use case returns cars which their name or brand contains the
// searchTerm (ignoring the case) and their price falls in the
// priceRange bucket. The "all" priceRange applies no price restriction.
// Both arguments are required, so an empty term or price range is
// rejected without querying the database. Results are not cached.
func (cars *UseCase) Search(
	ctx context.Context, searchTerm, priceRange string,
) (list []model.Car, err error) {
	term := strings.TrimSpace(searchTerm)
	if term == "" {
		return nil, cerr.BadRequest(ErrEmptySearchTerm)
	}
	pr, err := model.ParsePriceRange(priceRange)
	if err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		list, err = cars.carsrp.Conn(c).Search(ctx, term, pr)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("searching cars: %w", err)
	}
	return list, nil
}

// FindByID use case returns the carID car with its specification and
// the IDs of the users who have bookmarked it.
func (cars *UseCase) FindByID(
	ctx context.Context, carID uuid.UUID,
) (cd *model.CarDetail, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		cd, err = cars.carsrp.Conn(c).Find(ctx, carID)
		return err
	})
	if err != nil {
		cd = nil
	}
	return
}

// Seller use case returns the seller of the carID car.
func (cars *UseCase) Seller(
	ctx context.Context, carID uuid.UUID,
) (s *model.Seller, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		s, err = cars.carsrp.Conn(c).Seller(ctx, carID)
		return err
	})
	if err != nil {
		s = nil
	}
	return
}

// Create use case creates the l listing on behalf of the s session
// user. The car, seller, and specification are inserted in one
// transaction, so either all of them or none of them are persisted.
// The listing cache is invalidated after a successful creation and the
// new car ID is returned.
func (cars *UseCase) Create(
	ctx context.Context, s *model.Session, l *model.Listing,
) (id uuid.UUID, err error) {
	if err = s.Require(); err != nil {
		return uuid.Nil, cerr.Authentication(err)
	}
	if err = l.Validate(); err != nil {
		return uuid.Nil, cerr.BadRequest(err)
	}
	l.Car.UserID = s.UserID
	if l.Seller.Image == "" {
		l.Seller.Image = model.DefaultSellerImage
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := cars.carsrp.Tx(tx)
			id, err = q.CreateCar(ctx, &l.Car)
			if err != nil {
				return fmt.Errorf("inserting car: %w", err)
			}
			if err := q.CreateSeller(ctx, id, &l.Seller); err != nil {
				return fmt.Errorf("inserting seller: %w", err)
			}
			err := q.CreateSpecification(ctx, id, &l.Specification)
			if err != nil {
				return fmt.Errorf("inserting specification: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating listing: %w", err)
	}
	n := cars.cache.InvalidatePrefix(CacheKeyPrefix)
	log.Info(
		ctx, "listing is created",
		log.UUID("car", id), log.Valuer("session", s),
		slog.Int("invalidated", n),
	)
	return id, nil
}

// ContactSeller use case stores the msg contact message for the seller
// of its car, after checking that the car exists.
func (cars *UseCase) ContactSeller(
	ctx context.Context, msg *model.ContactMessage,
) error {
	if err := msg.Validate(); err != nil {
		return cerr.BadRequest(err)
	}
	return cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ok, err := cars.carsrp.Conn(c).Exists(ctx, msg.CarID)
		if err != nil {
			return fmt.Errorf("checking car existence: %w", err)
		}
		if !ok {
			return cerr.NotFound(ErrCarNotFound)
		}
		if err := cars.contactsrp.Conn(c).Create(ctx, msg); err != nil {
			return fmt.Errorf("storing contact message: %w", err)
		}
		return nil
	})
}
