// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sitemaprs serves the /sitemap.xml document which lists the
// home page and one page per listed car for the search engines.
package sitemaprs

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/usecase/carsuc"
)

// Namespace is the sitemap protocol XML namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLSet is the root element of a sitemap document.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is one sitemap entry. LastMod is omitted for the home page.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type resource struct {
	cars    *carsuc.UseCase
	baseURL string
}

// Register adds the GET /sitemap.xml route to the e engine root.
// The baseURL prefixes all locations. If it is empty, the scheme and
// host of each request are used instead.
func Register(e *gin.Engine, cars *carsuc.UseCase, baseURL string) {
	rs := &resource{
		cars:    cars,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	e.GET("/sitemap.xml", rs.Sitemap)
}

func (rs *resource) Sitemap(c *gin.Context) {
	list, err := rs.cars.ListAll(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.XML(http.StatusOK, Build(rs.base(c), list))
}

func (rs *resource) base(c *gin.Context) string {
	if rs.baseURL != "" {
		return rs.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fp := c.GetHeader("X-Forwarded-Proto"); fp != "" {
		scheme = fp
	}
	return scheme + "://" + c.Request.Host
}

// Build creates the sitemap of base home page followed by the pages
// of all cars in their given order.
func Build(base string, cars []model.Car) *URLSet {
	us := &URLSet{
		XMLNS: Namespace,
		URLs: []URL{{
			Loc: base, ChangeFreq: "daily", Priority: "1.0",
		}},
	}
	for _, car := range cars {
		us.URLs = append(us.URLs, URL{
			Loc:        base + "/cars/" + car.ID.String(),
			LastMod:    car.UpdatedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	return us
}
