// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrs realizes the cars resource, allowing the listing,
// searching, and creation REST APIs to be accepted and delegated to
// the cars use cases respectively.
package carsrs

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carweb/pkg/core/log"
	"github.com/momeni/carweb/pkg/core/usecase/carsuc"
	"github.com/momeni/carweb/pkg/core/usecase/draftuc"
)

type resource struct {
	cars   *carsuc.UseCase
	drafts *draftuc.UseCase
}

// Register instantiates a resource adapting the cars use case instance
// with the relevant REST APIs including:
//  1. GET request to /api/carweb/v1/cars?page=&type=
//     in order to list a page of cars, newest first,
//  2. GET request to /api/carweb/v1/cars/all
//     in order to list all cars,
//  3. GET request to /api/carweb/v1/cars/search?q=&price=
//     in order to search cars by a text and a price range,
//  4. GET request to /api/carweb/v1/cars/:cid
//     in order to fetch the details of a car,
//  5. GET request to /api/carweb/v1/cars/:cid/seller
//     in order to fetch the seller of a car,
//  6. POST request to /api/carweb/v1/cars
//     in order to create a listing (and reset the user draft),
//  7. POST request to /api/carweb/v1/cars/:cid/contact
//     in order to leave a message for the seller of a car.
func Register(
	r *gin.RouterGroup, cars *carsuc.UseCase, drafts *draftuc.UseCase,
) {
	rs := &resource{cars: cars, drafts: drafts}
	r.GET("cars", rs.ListPage)
	r.GET("cars/all", rs.ListAll)
	r.GET("cars/search", rs.Search)
	r.GET("cars/:cid", rs.FindCar)
	r.GET("cars/:cid/seller", rs.Seller)
	r.POST("cars", rs.CreateCar)
	r.POST("cars/:cid/contact", rs.ContactSeller)
}

func (rs *resource) ListPage(c *gin.Context) {
	req, ok := rs.DserListPageReq(c)
	if !ok {
		return
	}
	cars, err := rs.cars.ListPage(c, req.Page, req.Type)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (rs *resource) ListAll(c *gin.Context) {
	cars, err := rs.cars.ListAll(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (rs *resource) Search(c *gin.Context) {
	req, ok := rs.DserSearchReq(c)
	if !ok {
		return
	}
	cars, err := rs.cars.Search(c, req.Query, req.Price)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (rs *resource) FindCar(c *gin.Context) {
	carID, ok := serdser.ParamID(c, "cid")
	if !ok {
		return
	}
	cd, err := rs.cars.FindByID(c, carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	resp := &CarDetailResp{CarDetail: cd}
	if s := authrs.SessionOf(c); s != nil {
		resp.SavedByMe = slices.Contains(cd.SavedBy, s.UserID)
	}
	c.JSON(http.StatusOK, resp)
}

func (rs *resource) Seller(c *gin.Context) {
	carID, ok := serdser.ParamID(c, "cid")
	if !ok {
		return
	}
	s, err := rs.cars.Seller(c, carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) CreateCar(c *gin.Context) {
	s := authrs.SessionOf(c)
	l, ok := rs.DserCreateCarReq(c, s)
	if !ok {
		return
	}
	carID, err := rs.cars.Create(c, s, l)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	// The listing is persisted already, so a failed reset is reported
	// in the logs alone.
	if err := rs.drafts.Reset(c, s); err != nil {
		log.Warn(
			c, "draft could not be reset",
			log.Valuer("session", s), log.Err("err", err),
		)
	}
	c.JSON(http.StatusCreated, gin.H{"id": carID})
}

func (rs *resource) ContactSeller(c *gin.Context) {
	msg, ok := rs.DserContactSellerReq(c)
	if !ok {
		return
	}
	if err := rs.cars.ContactSeller(c, msg); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
