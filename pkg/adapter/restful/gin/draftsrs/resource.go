// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package draftsrs realizes the drafts resource, keeping the add-car
// form contents and its selected images of each signed in user.
package draftsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/usecase/draftuc"
)

type resource struct {
	drafts *draftuc.UseCase
}

// Register instantiates a resource adapting the drafts use case
// instance with the relevant REST APIs including:
//  1. GET request to /api/carweb/v1/drafts
//     in order to fetch the draft (or an empty draft),
//  2. PUT request to /api/carweb/v1/drafts
//     in order to replace the draft,
//  3. DELETE request to /api/carweb/v1/drafts
//     in order to reset the draft,
//  4. POST request to /api/carweb/v1/drafts/images
//     in order to add an image path to the draft,
//  5. PUT request to /api/carweb/v1/drafts/images
//     in order to replace the draft images,
//  6. DELETE request to /api/carweb/v1/drafts/images?path=
//     in order to remove one image (or all images if path is empty).
func Register(r *gin.RouterGroup, drafts *draftuc.UseCase) {
	rs := &resource{drafts: drafts}
	r.GET("drafts", rs.Load)
	r.PUT("drafts", rs.Save)
	r.DELETE("drafts", rs.Reset)
	r.POST("drafts/images", rs.AddImage)
	r.PUT("drafts/images", rs.SetImages)
	r.DELETE("drafts/images", rs.RemoveImage)
}

func (rs *resource) Load(c *gin.Context) {
	d, err := rs.drafts.Load(c, authrs.SessionOf(c))
	rs.respond(c, d, err)
}

func (rs *resource) Save(c *gin.Context) {
	d, ok := rs.DserDraftReq(c)
	if !ok {
		return
	}
	s := authrs.SessionOf(c)
	if err := rs.drafts.Save(c, s, d); err != nil {
		serdser.SerErr(c, err)
		return
	}
	d, err := rs.drafts.Load(c, s)
	rs.respond(c, d, err)
}

func (rs *resource) Reset(c *gin.Context) {
	if err := rs.drafts.Reset(c, authrs.SessionOf(c)); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) AddImage(c *gin.Context) {
	req, ok := rs.DserImageReq(c)
	if !ok {
		return
	}
	d, err := rs.drafts.AddImage(c, authrs.SessionOf(c), req.Path)
	rs.respond(c, d, err)
}

func (rs *resource) SetImages(c *gin.Context) {
	req, ok := rs.DserImagesReq(c)
	if !ok {
		return
	}
	d, err := rs.drafts.SetImages(c, authrs.SessionOf(c), req.Images)
	rs.respond(c, d, err)
}

func (rs *resource) RemoveImage(c *gin.Context) {
	s := authrs.SessionOf(c)
	var d *model.Draft
	var err error
	if path := c.Query("path"); path != "" {
		d, err = rs.drafts.RemoveImage(c, s, path)
	} else {
		d, err = rs.drafts.ClearImages(c, s)
	}
	rs.respond(c, d, err)
}

func (rs *resource) respond(c *gin.Context, d *model.Draft, err error) {
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
