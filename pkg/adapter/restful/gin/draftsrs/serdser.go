// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package draftsrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carweb/pkg/core/model"
)

func (rs *resource) DserDraftReq(c *gin.Context) (*model.Draft, bool) {
	d := &model.Draft{}
	if ok := serdser.Bind(c, d, binding.JSON); !ok {
		return nil, false
	}
	return d, true
}

type imageReq struct {
	Path string `json:"path" binding:"required"`
}

func (rs *resource) DserImageReq(c *gin.Context) (*imageReq, bool) {
	req := &imageReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	return req, true
}

type imagesReq struct {
	Images []string `json:"images" binding:"dive,required"`
}

func (rs *resource) DserImagesReq(c *gin.Context) (*imagesReq, bool) {
	req := &imagesReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	return req, true
}
