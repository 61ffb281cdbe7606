// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settingsrs realizes the settings resource, allowing the
// visible settings to be fetched by web clients, so they may adapt
// their page size or filter debounce with the server.
package settingsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carweb/pkg/core/model"
)

type resource struct {
	settings model.Settings
}

// Register instantiates a resource for the s visible settings with
// the GET request to /api/carweb/v1/settings REST API.
func Register(r *gin.RouterGroup, s model.Settings) {
	rs := &resource{settings: s}
	r.GET("settings", rs.FetchSettings)
}

func (rs *resource) FetchSettings(c *gin.Context) {
	c.JSON(http.StatusOK, rs.settings)
}
