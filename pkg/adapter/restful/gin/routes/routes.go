// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carweb/pkg/adapter/cache/ttlcache"
	"github.com/momeni/carweb/pkg/adapter/config/cfg1"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/bookmarksrp"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/contactsrp"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/draftsrp"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/carweb/pkg/adapter/imagekit"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/airs"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/bookmarksrs"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/carsrs"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/draftsrs"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/settingsrs"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/sitemaprs"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
	"github.com/momeni/carweb/pkg/core/usecase/aiuc"
	"github.com/momeni/carweb/pkg/core/usecase/bookmarksuc"
	"github.com/momeni/carweb/pkg/core/usecase/carsuc"
	"github.com/momeni/carweb/pkg/core/usecase/draftuc"
	"github.com/momeni/carweb/pkg/core/usecase/usersuc"
)

// BasePath is the common prefix of all REST APIs.
const BasePath = "/api/carweb/v1"

// UseCases holds the use case instances and the resource level
// settings which are required by Mount.
type UseCases struct {
	Cars      *carsuc.UseCase
	Bookmarks *bookmarksuc.UseCase
	Drafts    *draftuc.UseCase
	AI        *aiuc.UseCase
	Users     *usersuc.UseCase

	Tokens   authrs.Tokens
	Identity authrs.Identity // nil disables the sign-in routes

	Settings      model.Settings
	SecureCookies bool
	PublicURL     string
}

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases. Each use case package is named
// like carsuc and each repository package is named like carsrp.
// The instantiated use cases are then mounted on the e engine by
// the Mount function.
// Possible errors will be returned after possible wrapping.
func Register(e *gin.Engine, p repo.Pool, c *cfg1.Config) error {
	carsRepo := carsrp.New()
	cars, err := c.Usecases.Cars.NewUseCase(
		p, carsRepo, contactsrp.New(), ttlcache.New[[]model.Car](),
	)
	if err != nil {
		return fmt.Errorf("creating cars use case: %w", err)
	}
	tokens, err := c.Auth.SessionManager()
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}
	images, err := c.ImageKit.NewClient()
	if err != nil {
		return fmt.Errorf("creating imagekit client: %w", err)
	}
	inf, err := c.Inference.NewClient()
	if err != nil {
		return fmt.Errorf("creating inference client: %w", err)
	}
	drafts := draftuc.New(p, draftsrp.New())
	ucs := &UseCases{
		Cars:      cars,
		Bookmarks: bookmarksuc.New(p, bookmarksrp.New(), carsRepo),
		Drafts:    drafts,
		AI: aiuc.New(
			inf, images, imagekit.NewProcessor(), cars, drafts,
		),
		Users:         usersuc.New(p, usersrp.New()),
		Tokens:        tokens,
		Settings:      c.Settings(),
		SecureCookies: *c.Auth.SecureCookies,
		PublicURL:     c.Gin.PublicURL,
	}
	if gh := c.Auth.GitHubProvider(); gh != nil {
		ucs.Identity = gh
	}
	Mount(e, ucs)
	return nil
}

// Mount instantiates a series of "resource" structs, from packages
// which are named like carsrs, in order to adapt the ucs use cases
// with the REST APIs. These resources are registered as request
// handlers using the e gin-gonic engine instance. All APIs, except
// the sitemap, are registered under the BasePath group which resolves
// the optional session of each request.
func Mount(e *gin.Engine, ucs *UseCases) {
	sitemaprs.Register(e, ucs.Cars, ucs.PublicURL)
	r := e.Group(BasePath, authrs.OptionalAuth(ucs.Tokens))
	settingsrs.Register(r, ucs.Settings)
	authrs.Register(
		r, ucs.Users, ucs.Tokens, ucs.Identity, ucs.SecureCookies,
	)
	carsrs.Register(r, ucs.Cars, ucs.Drafts)
	bookmarksrs.Register(r, ucs.Bookmarks)
	draftsrs.Register(r, ucs.Drafts)
	airs.Register(r, ucs.AI)
}
