// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
)

type listPageReq struct {
	Page int    `form:"page" binding:"omitempty,min=1"`
	Type string `form:"type"`
}

func (rs *resource) DserListPageReq(c *gin.Context) (*listPageReq, bool) {
	req := &listPageReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil, false
	}
	req.Page = model.NormalizePage(req.Page)
	return req, true
}

type searchReq struct {
	Query string `form:"q"`
	Price string `form:"price"`
}

// DserSearchReq binds the search query. The term and price range are
// validated by the cars use case, so a missing price range (which is
// not the explicit "all" literal) is reported as a bad request too.
func (rs *resource) DserSearchReq(c *gin.Context) (*searchReq, bool) {
	req := &searchReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil, false
	}
	return req, true
}

// DserCreateCarReq binds the car draft (with its images) and converts
// it to a listing which is owned by the s session user.
func (rs *resource) DserCreateCarReq(
	c *gin.Context, s *model.Session,
) (*model.Listing, bool) {
	if err := s.Require(); err != nil {
		serdser.SerErr(c, cerr.Authentication(err))
		return nil, false
	}
	d := &model.Draft{}
	if ok := serdser.Bind(c, d, binding.JSON); !ok {
		return nil, false
	}
	l, err := d.Listing(s.UserID)
	if err != nil {
		serdser.SerErr(c, cerr.BadRequest(err))
		return nil, false
	}
	return l, true
}

type contactReq struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Content   string `json:"content" binding:"required"`
}

func (rs *resource) DserContactSellerReq(
	c *gin.Context,
) (*model.ContactMessage, bool) {
	carID, ok := serdser.ParamID(c, "cid")
	if !ok {
		return nil, false
	}
	req := &contactReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	return &model.ContactMessage{
		CarID:     carID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Content:   req.Content,
	}, true
}

// CarDetailResp reports a car with its specification and reports if
// it is bookmarked by the current user.
type CarDetailResp struct {
	*model.CarDetail
	SavedByMe bool `json:"savedByMe"`
}
