// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bookmarksrs realizes the bookmarks resource, allowing signed
// in users to bookmark cars and list their bookmarked cars.
package bookmarksrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carweb/pkg/core/usecase/bookmarksuc"
)

type resource struct {
	bookmarks *bookmarksuc.UseCase
}

// ToggleResp reports the bookmark state after a toggle.
type ToggleResp struct {
	Saved bool `json:"saved"`
}

// Register instantiates a resource adapting the bookmarks use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/carweb/v1/cars/:cid/bookmark
//     in order to toggle the bookmark of a car,
//  2. GET request to /api/carweb/v1/bookmarks
//     in order to list the bookmarked cars, newest bookmark first.
func Register(r *gin.RouterGroup, bookmarks *bookmarksuc.UseCase) {
	rs := &resource{bookmarks: bookmarks}
	r.POST("cars/:cid/bookmark", rs.Toggle)
	r.GET("bookmarks", rs.List)
}

func (rs *resource) Toggle(c *gin.Context) {
	carID, ok := serdser.ParamID(c, "cid")
	if !ok {
		return
	}
	saved, err := rs.bookmarks.Toggle(c, authrs.SessionOf(c), carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, &ToggleResp{Saved: saved})
}

func (rs *resource) List(c *gin.Context) {
	cars, err := rs.bookmarks.List(c, authrs.SessionOf(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}
