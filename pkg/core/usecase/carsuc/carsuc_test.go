// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carweb/internal/test/memdb"
	"github.com/momeni/carweb/pkg/adapter/cache/ttlcache"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/usecase/carsuc"
	"github.com/stretchr/testify/suite"
)

type CarsUseCaseTestSuite struct {
	suite.Suite

	Ctx   context.Context
	DB    *memdb.DB
	Cache *ttlcache.Cache[[]model.Car]
	UC    *carsuc.UseCase
	S     *model.Session
}

func TestCarsUseCaseTestSuite(t *testing.T) {
	suite.Run(t, &CarsUseCaseTestSuite{Ctx: context.Background()})
}

func (cuts *CarsUseCaseTestSuite) SetupTest() {
	cuts.DB = memdb.New()
	cuts.Cache = ttlcache.New[[]model.Car]()
	uc, err := carsuc.New(
		cuts.DB, memdb.Cars{}, memdb.Contacts{}, cuts.Cache,
		carsuc.WithCacheTTL(time.Hour),
	)
	cuts.Require().NoError(err)
	cuts.UC = uc
	cuts.S = &model.Session{UserID: uuid.New(), Email: "u@example.com"}
}

func listing(name, brand string, t model.CarType, price float64) *model.Listing {
	return &model.Listing{
		Car: model.Car{
			Name: name, Brand: brand, Type: t,
			Year: 2020, Mileage: 1000, Price: price,
			Transmission: model.TransmissionAutomatic,
			FuelType:     model.FuelTypePetrol,
		},
		Seller: model.Seller{Name: "Seller of " + name},
	}
}

func (cuts *CarsUseCaseTestSuite) create(l *model.Listing) uuid.UUID {
	id, err := cuts.UC.Create(cuts.Ctx, cuts.S, l)
	cuts.Require().NoError(err)
	return id
}

func (cuts *CarsUseCaseTestSuite) requireStatus(err error, status int) {
	var ce *cerr.Error
	cuts.Require().True(errors.As(err, &ce), "expected a cerr.Error: %v", err)
	cuts.Equal(status, ce.HTTPStatusCode)
}

func (cuts *CarsUseCaseTestSuite) TestOptionsValidation() {
	_, err := carsuc.New(
		cuts.DB, memdb.Cars{}, memdb.Contacts{}, cuts.Cache,
		carsuc.WithCacheTTL(-time.Second),
	)
	cuts.Error(err)
	_, err = carsuc.New(
		cuts.DB, memdb.Cars{}, memdb.Contacts{}, cuts.Cache,
		carsuc.WithCacheTTL(time.Second), carsuc.WithCacheTTL(time.Minute),
	)
	cuts.Error(err)
	uc, err := carsuc.New(cuts.DB, memdb.Cars{}, memdb.Contacts{}, cuts.Cache)
	cuts.Require().NoError(err)
	cuts.Equal(24*time.Hour, uc.CacheTTL())
}

func (cuts *CarsUseCaseTestSuite) TestListPagePagination() {
	var ids []uuid.UUID
	for i := 0; i < 10; i++ {
		ids = append(ids, cuts.create(
			listing(fmt.Sprintf("Car %d", i), "Brand", model.CarTypeSUV, 1000),
		))
	}
	page1, err := cuts.UC.ListPage(cuts.Ctx, 1, "")
	cuts.Require().NoError(err)
	cuts.Require().Len(page1, model.ListingPageSize)
	cuts.Equal(ids[9], page1[0].ID, "newest car must come first")
	for i := 1; i < len(page1); i++ {
		cuts.False(page1[i].CreatedAt.After(page1[i-1].CreatedAt))
	}

	page2, err := cuts.UC.ListPage(cuts.Ctx, 2, "all")
	cuts.Require().NoError(err)
	cuts.Require().Len(page2, 2)
	cuts.Equal(ids[0], page2[1].ID)

	page0, err := cuts.UC.ListPage(cuts.Ctx, 0, "")
	cuts.Require().NoError(err)
	cuts.Equal(page1, page0, "page < 1 must be taken as page 1")
}

func (cuts *CarsUseCaseTestSuite) TestListPageTypeFilter() {
	cuts.create(listing("RAV4", "Toyota", model.CarTypeSUV, 25000))
	cuts.create(listing("Corolla", "Toyota", model.CarTypeSedan, 9000))
	cuts.create(listing("Golf", "VW", model.CarTypeHatchback, 12000))

	all, err := cuts.UC.ListPage(cuts.Ctx, 1, "all")
	cuts.Require().NoError(err)
	empty, err := cuts.UC.ListPage(cuts.Ctx, 1, "")
	cuts.Require().NoError(err)
	cuts.Len(all, 3)
	cuts.Equal(all, empty, "type=all and type='' must be identical")

	suvs, err := cuts.UC.ListPage(cuts.Ctx, 1, "suv")
	cuts.Require().NoError(err)
	cuts.Require().Len(suvs, 1)
	cuts.Equal("RAV4", suvs[0].Name)

	mixed, err := cuts.UC.ListPage(cuts.Ctx, 1, "SUV,FOO")
	cuts.Require().NoError(err)
	cuts.Equal(suvs, mixed, "invalid tokens must be excluded")

	two, err := cuts.UC.ListPage(cuts.Ctx, 1, " sedan , SUV ,SEDAN")
	cuts.Require().NoError(err)
	cuts.Len(two, 2)
	for _, c := range two {
		cuts.NotEqual(model.CarTypeHatchback, c.Type)
	}
}

func (cuts *CarsUseCaseTestSuite) TestListPageCache() {
	cuts.create(listing("RAV4", "Toyota", model.CarTypeSUV, 25000))
	_, err := cuts.UC.ListPage(cuts.Ctx, 1, "SUV,SEDAN")
	cuts.Require().NoError(err)
	q := cuts.DB.Queries()

	_, err = cuts.UC.ListPage(cuts.Ctx, 1, "sedan,suv")
	cuts.Require().NoError(err)
	cuts.Equal(q, cuts.DB.Queries(), "canonical key must hit the cache")
	_, ok := cuts.Cache.Get("cars:page:1:SEDAN,SUV")
	cuts.True(ok)

	cuts.create(listing("X5", "BMW", model.CarTypeSUV, 45000))
	_, ok = cuts.Cache.Get("cars:page:1:SEDAN,SUV")
	cuts.False(ok, "creation must invalidate the listing cache")
	list, err := cuts.UC.ListPage(cuts.Ctx, 1, "SUV,SEDAN")
	cuts.Require().NoError(err)
	cuts.Len(list, 2)
}

func (cuts *CarsUseCaseTestSuite) TestCachedListsAreIsolated() {
	l := listing("RAV4", "Toyota", model.CarTypeSUV, 25000)
	l.Car.Images = []string{"/cars/rav4.jpg"}
	cuts.create(l)

	for _, list := range []func() ([]model.Car, error){
		func() ([]model.Car, error) { return cuts.UC.ListPage(cuts.Ctx, 1, "") },
		func() ([]model.Car, error) { return cuts.UC.ListAll(cuts.Ctx) },
	} {
		warm, err := list()
		cuts.Require().NoError(err)
		cuts.Require().Len(warm, 1)
		warm[0].Name = "changed"

		hit, err := list()
		cuts.Require().NoError(err)
		cuts.Require().Len(hit, 1)
		cuts.Equal("RAV4", hit[0].Name, "callers may not alter the cache")
		hit[0].Name = "changed"
		hit[0].Images[0] = "/changed.jpg"

		again, err := list()
		cuts.Require().NoError(err)
		cuts.Require().Len(again, 1)
		cuts.Equal("RAV4", again[0].Name)
		cuts.Equal([]string{"/cars/rav4.jpg"}, again[0].Images)
	}
}

func (cuts *CarsUseCaseTestSuite) TestListAll() {
	cuts.create(listing("A", "B", model.CarTypeCoupe, 1))
	cuts.create(listing("C", "D", model.CarTypeWagon, 2))
	all, err := cuts.UC.ListAll(cuts.Ctx)
	cuts.Require().NoError(err)
	cuts.Require().Len(all, 2)
	cuts.Equal("C", all[0].Name)
	q := cuts.DB.Queries()
	_, err = cuts.UC.ListAll(cuts.Ctx)
	cuts.Require().NoError(err)
	cuts.Equal(q, cuts.DB.Queries())
}

func (cuts *CarsUseCaseTestSuite) TestSearch() {
	cuts.create(listing("Corolla", "Toyota", model.CarTypeSedan, 10000))
	cuts.create(listing("Camry", "Toyota", model.CarTypeSedan, 10000.5))
	cuts.create(listing("Land Cruiser", "Toyota", model.CarTypeSUV, 30000))
	cuts.create(listing("Supra", "Toyota", model.CarTypeSports, 30001))
	cuts.create(listing("Golf", "VW", model.CarTypeHatchback, 0))

	names := func(cars []model.Car) []string {
		var ns []string
		for _, c := range cars {
			ns = append(ns, c.Name)
		}
		return ns
	}
	for _, tc := range []struct {
		term, price string
		expected    []string
	}{
		{"toyota", "all", []string{"Supra", "Land Cruiser", "Camry", "Corolla"}},
		{"TOYOTA", "0-10000", []string{"Corolla"}},
		{"toyota", "10000-20000", []string{"Camry"}},
		{"toyota", "20000-30000", []string{"Land Cruiser"}},
		{"toyota", "30000+", []string{"Supra"}},
		{"golf", "0-10000", []string{"Golf"}},
		{"cRuIs", "all", []string{"Land Cruiser"}},
		{"tesla", "all", nil},
	} {
		cuts.Run(tc.term+" "+tc.price, func() {
			cars, err := cuts.UC.Search(cuts.Ctx, tc.term, tc.price)
			cuts.Require().NoError(err)
			cuts.Equal(tc.expected, names(cars))
		})
	}
}

func (cuts *CarsUseCaseTestSuite) TestSearchValidation() {
	q := cuts.DB.Queries()
	_, err := cuts.UC.Search(cuts.Ctx, "", "all")
	cuts.requireStatus(err, http.StatusBadRequest)
	_, err = cuts.UC.Search(cuts.Ctx, "   ", "all")
	cuts.requireStatus(err, http.StatusBadRequest)
	_, err = cuts.UC.Search(cuts.Ctx, "toyota", "")
	cuts.requireStatus(err, http.StatusBadRequest)
	_, err = cuts.UC.Search(cuts.Ctx, "toyota", "5-6")
	cuts.requireStatus(err, http.StatusBadRequest)
	cuts.Equal(q, cuts.DB.Queries(), "invalid searches may not query")
}

func (cuts *CarsUseCaseTestSuite) TestCreateValidation() {
	_, err := cuts.UC.Create(cuts.Ctx, nil, listing("A", "B", model.CarTypeSUV, 1))
	cuts.requireStatus(err, http.StatusUnauthorized)

	l := listing("A", "B", model.CarType("TANK"), 1)
	_, err = cuts.UC.Create(cuts.Ctx, cuts.S, l)
	cuts.requireStatus(err, http.StatusBadRequest)

	l = listing("A", "B", model.CarTypeSUV, -1)
	_, err = cuts.UC.Create(cuts.Ctx, cuts.S, l)
	cuts.requireStatus(err, http.StatusBadRequest)

	cars, _, _, _, _ := cuts.DB.Counts()
	cuts.Zero(cars)
}

func (cuts *CarsUseCaseTestSuite) TestCreateIsAtomic() {
	cuts.DB.FailOn("CreateSpecification", errors.New("disk is full"))
	_, err := cuts.UC.Create(
		cuts.Ctx, cuts.S, listing("A", "B", model.CarTypeSUV, 1),
	)
	cuts.Require().Error(err)
	cars, sellers, specs, _, _ := cuts.DB.Counts()
	cuts.Zero(cars, "car insert must be rolled back")
	cuts.Zero(sellers, "seller insert must be rolled back")
	cuts.Zero(specs)

	cuts.DB.FailOn("CreateSpecification", nil)
	id := cuts.create(listing("A", "B", model.CarTypeSUV, 1))
	cars, sellers, specs, _, _ = cuts.DB.Counts()
	cuts.Equal([3]int{1, 1, 1}, [3]int{cars, sellers, specs})

	cd, err := cuts.UC.FindByID(cuts.Ctx, id)
	cuts.Require().NoError(err)
	cuts.Equal(cuts.S.UserID, cd.UserID)
	cuts.Empty(cd.SavedBy)

	s, err := cuts.UC.Seller(cuts.Ctx, id)
	cuts.Require().NoError(err)
	cuts.Equal("Seller of A", s.Name)
	cuts.Equal(model.DefaultSellerImage, s.Image)
}

func (cuts *CarsUseCaseTestSuite) TestFindMissing() {
	_, err := cuts.UC.FindByID(cuts.Ctx, uuid.New())
	cuts.requireStatus(err, http.StatusNotFound)
	_, err = cuts.UC.Seller(cuts.Ctx, uuid.New())
	cuts.requireStatus(err, http.StatusNotFound)
}

func (cuts *CarsUseCaseTestSuite) TestContactSeller() {
	id := cuts.create(listing("A", "B", model.CarTypeSUV, 1))
	msg := &model.ContactMessage{
		CarID:     id,
		FirstName: "Jane",
		Email:     "jane@example.com",
		Content:   "Is it still available?",
	}
	cuts.Require().NoError(cuts.UC.ContactSeller(cuts.Ctx, msg))
	msgs := cuts.DB.Contacts()
	cuts.Require().Len(msgs, 1)
	cuts.Equal("Jane", msgs[0].FirstName)
	cuts.False(msgs[0].CreatedAt.IsZero())

	missing := *msg
	missing.CarID = uuid.New()
	err := cuts.UC.ContactSeller(cuts.Ctx, &missing)
	cuts.requireStatus(err, http.StatusNotFound)

	invalid := *msg
	invalid.Email = "not-an-email"
	err = cuts.UC.ContactSeller(cuts.Ctx, &invalid)
	cuts.requireStatus(err, http.StatusBadRequest)
	cuts.Len(cuts.DB.Contacts(), 1)
}
