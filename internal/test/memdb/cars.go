// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memdb

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// Cars implements the repo.Cars interface.
type Cars struct {
}

// Conn wraps c (which must be a *memdb.Conn) as a cars queryer.
func (Cars) Conn(c repo.Conn) repo.CarsConnQueryer {
	return carsQueryer{q: c}
}

// Tx wraps tx (which must be a *memdb.Tx) as a cars queryer.
func (Cars) Tx(tx repo.Tx) repo.CarsTxQueryer {
	return carsQueryer{q: tx}
}

type carsQueryer struct {
	q any
}

func newestFirst(st *state) []model.Car {
	cars := make([]model.Car, 0, len(st.cars))
	for _, c := range st.cars {
		cars = append(cars, c)
	}
	slices.SortFunc(cars, func(a, b model.Car) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return cars
}

func (cq carsQueryer) List(
	_ context.Context, offset, limit int, types model.TypeSet,
) (cars []model.Car, err error) {
	err = view(cq.q, "List", func(_ *DB, st *state) error {
		cars = []model.Car{}
		for _, c := range newestFirst(st) {
			if !types.Empty() && !types.Contains(c.Type) {
				continue
			}
			if offset > 0 {
				offset--
				continue
			}
			if len(cars) == limit {
				break
			}
			cars = append(cars, c)
		}
		return nil
	})
	return
}

func (cq carsQueryer) ListAll(context.Context) (cars []model.Car, err error) {
	err = view(cq.q, "ListAll", func(_ *DB, st *state) error {
		cars = newestFirst(st)
		return nil
	})
	return
}

func (cq carsQueryer) Search(
	_ context.Context, term string, pr *model.PriceRange,
) (cars []model.Car, err error) {
	term = strings.ToLower(term)
	err = view(cq.q, "Search", func(_ *DB, st *state) error {
		cars = []model.Car{}
		for _, c := range newestFirst(st) {
			name := strings.ToLower(c.Name)
			brand := strings.ToLower(c.Brand)
			if !strings.Contains(name, term) &&
				!strings.Contains(brand, term) {
				continue
			}
			if pr != nil && !pr.Contains(c.Price) {
				continue
			}
			cars = append(cars, c)
		}
		return nil
	})
	return
}

func (cq carsQueryer) Find(
	_ context.Context, carID uuid.UUID,
) (cd *model.CarDetail, err error) {
	err = view(cq.q, "Find", func(_ *DB, st *state) error {
		c, ok := st.cars[carID]
		if !ok {
			return cerr.NotFound(fmt.Errorf("car %s not found", carID))
		}
		cd = &model.CarDetail{
			Car:           c,
			Specification: st.specs[carID],
			SavedBy:       []uuid.UUID{},
		}
		for k := range st.bookmarks {
			if k.carID == carID {
				cd.SavedBy = append(cd.SavedBy, k.userID)
			}
		}
		slices.SortFunc(cd.SavedBy, func(a, b uuid.UUID) int {
			return cmp.Compare(a.String(), b.String())
		})
		return nil
	})
	return
}

func (cq carsQueryer) Seller(
	_ context.Context, carID uuid.UUID,
) (s *model.Seller, err error) {
	err = view(cq.q, "Seller", func(_ *DB, st *state) error {
		seller, ok := st.sellers[carID]
		if !ok {
			return cerr.NotFound(
				fmt.Errorf("seller of car %s not found", carID),
			)
		}
		s = &seller
		return nil
	})
	return
}

func (cq carsQueryer) Exists(
	_ context.Context, carID uuid.UUID,
) (ok bool, err error) {
	err = view(cq.q, "Exists", func(_ *DB, st *state) error {
		_, ok = st.cars[carID]
		return nil
	})
	return
}

func (cq carsQueryer) CreateCar(
	_ context.Context, car *model.Car,
) (id uuid.UUID, err error) {
	err = view(cq.q, "CreateCar", func(db *DB, st *state) error {
		car.ID = uuid.New()
		car.CreatedAt = db.tick()
		car.UpdatedAt = car.CreatedAt
		c := *car
		c.Images = slices.Clone(car.Images)
		c.Colors = slices.Clone(car.Colors)
		c.Features = slices.Clone(car.Features)
		st.cars[c.ID] = c
		id = c.ID
		return nil
	})
	return
}

func (cq carsQueryer) CreateSeller(
	_ context.Context, carID uuid.UUID, s *model.Seller,
) error {
	return view(cq.q, "CreateSeller", func(_ *DB, st *state) error {
		if _, ok := st.cars[carID]; !ok {
			return fmt.Errorf("car %s does not exist", carID)
		}
		st.sellers[carID] = *s
		return nil
	})
}

func (cq carsQueryer) CreateSpecification(
	_ context.Context, carID uuid.UUID, s *model.Specification,
) error {
	return view(cq.q, "CreateSpecification", func(_ *DB, st *state) error {
		if _, ok := st.cars[carID]; !ok {
			return fmt.Errorf("car %s does not exist", carID)
		}
		st.specs[carID] = *s
		return nil
	})
}
