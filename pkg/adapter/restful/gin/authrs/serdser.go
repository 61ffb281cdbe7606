// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package authrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carweb/pkg/core/cerr"
)

type callbackReq struct {
	Code  string `form:"code" binding:"required"`
	State string `form:"state" binding:"required"`
}

// DserCallbackReq binds the callback query and verifies its state
// against the state cookie which was set by the Login handler.
func (rs *resource) DserCallbackReq(c *gin.Context) (*callbackReq, bool) {
	req := &callbackReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil, false
	}
	state, err := c.Cookie(StateCookie)
	if err != nil || state != req.State {
		serdser.SerErr(c, cerr.BadRequest(ErrStateMismatch))
		return nil, false
	}
	return req, true
}
