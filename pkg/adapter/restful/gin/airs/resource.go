// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package airs realizes the AI-assisted resource, allowing cars to be
// found by free text descriptions, the add-car draft to be filled from
// a car name, and car images to be generated or uploaded.
package airs

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carweb/pkg/core/log"
	"github.com/momeni/carweb/pkg/core/usecase/aiuc"
)

// MaxUploadSize is the maximum accepted size of an uploaded image.
const MaxUploadSize = 10 << 20

type resource struct {
	ai *aiuc.UseCase
}

// Register instantiates a resource adapting the AI-assisted use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/carweb/v1/cars/find
//     in order to find a car ID from a description,
//  2. POST request to /api/carweb/v1/drafts/generate
//     in order to fill the draft from a car name,
//  3. POST request to /api/carweb/v1/images/generate
//     in order to generate a car image from a description,
//  4. POST request to /api/carweb/v1/images/upload
//     in order to upload a car image and add it to the draft.
func Register(r *gin.RouterGroup, ai *aiuc.UseCase) {
	rs := &resource{ai: ai}
	r.POST("cars/find", rs.FindCar)
	r.POST("drafts/generate", rs.Autofill)
	r.POST("images/generate", rs.GenerateImage)
	r.POST("images/upload", rs.UploadImage)
}

func (rs *resource) FindCar(c *gin.Context) {
	req, ok := rs.DserFindCarReq(c)
	if !ok {
		return
	}
	carID, err := rs.ai.FindCar(c, req.Description)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": carID})
}

func (rs *resource) Autofill(c *gin.Context) {
	req, ok := rs.DserAutofillReq(c)
	if !ok {
		return
	}
	d, err := rs.ai.Autofill(c, authrs.SessionOf(c), req.Name)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (rs *resource) GenerateImage(c *gin.Context) {
	req, ok := rs.DserGenerateImageReq(c)
	if !ok {
		return
	}
	img, err := rs.ai.GenerateImage(c, req.Description, req.Name)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, img)
}

// UploadImage uploads the multipart file field. The upload is aborted
// if the client disconnects since the request context is cancelled.
func (rs *resource) UploadImage(c *gin.Context) {
	s := authrs.SessionOf(c)
	req, ok := rs.DserUploadImageReq(c, s)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	d, err := rs.ai.UploadImage(
		ctx, s, req.Data, req.FileName,
		func(sent, total int64) {
			log.Debug(
				ctx, "image upload progress",
				log.Valuer("session", s),
				slog.Int64("sent", sent), slog.Int64("total", total),
			)
		},
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
