// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package airs

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
)

// ErrTooLarge indicates an uploaded file which exceeds MaxUploadSize.
var ErrTooLarge = fmt.Errorf("image is larger than %d bytes", MaxUploadSize)

type findCarReq struct {
	Description string `json:"description" binding:"required"`
}

func (rs *resource) DserFindCarReq(c *gin.Context) (*findCarReq, bool) {
	req := &findCarReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	return req, true
}

type autofillReq struct {
	Name string `json:"name" binding:"required"`
}

func (rs *resource) DserAutofillReq(c *gin.Context) (*autofillReq, bool) {
	req := &autofillReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	return req, true
}

type generateImageReq struct {
	Description string `json:"description" binding:"required"`
	Name        string `json:"name" binding:"required"`
}

func (rs *resource) DserGenerateImageReq(
	c *gin.Context,
) (*generateImageReq, bool) {
	req := &generateImageReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	return req, true
}

type uploadImageReq struct {
	FileName string `form:"fileName"`
	Data     []byte `form:"-"`
}

// DserUploadImageReq reads the multipart file field. The fileName
// field defaults to the name of the uploaded file. The session is
// checked beforehand, so anonymous uploads are not read at all.
func (rs *resource) DserUploadImageReq(
	c *gin.Context, s *model.Session,
) (*uploadImageReq, bool) {
	if err := s.Require(); err != nil {
		serdser.SerErr(c, cerr.Authentication(err))
		return nil, false
	}
	c.Request.Body = http.MaxBytesReader(
		c.Writer, c.Request.Body, MaxUploadSize+(1<<20),
	)
	req := &uploadImageReq{}
	if ok := serdser.Bind(c, req, binding.FormMultipart); !ok {
		return nil, false
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "file", err.Error())
		c.JSON(http.StatusBadRequest, errs)
		return nil, false
	}
	if fh.Size > MaxUploadSize {
		serdser.SerErr(c, cerr.BadRequest(ErrTooLarge))
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		serdser.SerErr(c, err)
		return nil, false
	}
	defer f.Close()
	req.Data, err = io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	switch {
	case err != nil:
		serdser.SerErr(c, err)
		return nil, false
	case len(req.Data) > MaxUploadSize:
		serdser.SerErr(c, cerr.BadRequest(ErrTooLarge))
		return nil, false
	}
	if req.FileName == "" {
		req.FileName = fh.Filename
	}
	return req, true
}
