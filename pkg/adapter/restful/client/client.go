// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package client calls the carweb REST APIs on behalf of a browsing
// client. It implements the browseuc.Navigator and browseuc.BookmarkToggler
// interfaces, so the browsing use cases may drive a remote server.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
)

// APIPath is the common prefix of the carweb REST APIs.
const APIPath = "/api/carweb/v1"

// DefaultTimeout bounds each request unless WithHTTPClient is used.
const DefaultTimeout = 10 * time.Second

// PageFunc receives the cars which were listed for rawQuery.
type PageFunc func(rawQuery string, cars []model.Car)

// Client calls a carweb server. The token (if not empty) is sent as
// a bearer token, so the session dependent APIs may be called.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	onPage  PageFunc
}

// Option configures a Client.
type Option func(c *Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithPageHandler sets the function which receives the listed cars
// whenever Navigate is called.
func WithPageHandler(fn PageFunc) Option {
	return func(c *Client) {
		c.onPage = fn
	}
}

// New instantiates a Client for the server at baseURL.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Navigate lists the cars of rawQuery query string (including its
// page and type parameters) and passes them to the page handler.
// It implements the browseuc.Navigator interface.
func (c *Client) Navigate(ctx context.Context, rawQuery string) error {
	cars, err := c.ListCars(ctx, rawQuery)
	if err != nil {
		return err
	}
	if c.onPage != nil {
		c.onPage(rawQuery, cars)
	}
	return nil
}

// ListCars fetches one listing page for the rawQuery query string.
func (c *Client) ListCars(
	ctx context.Context, rawQuery string,
) (cars []model.Car, err error) {
	path := "/cars"
	if rawQuery != "" {
		path += "?" + rawQuery
	}
	err = c.do(ctx, http.MethodGet, path, nil, &cars)
	return cars, err
}

// ToggleBookmark flips the saved state of the carID car and returns
// its new state. It implements the browseuc.BookmarkToggler interface.
func (c *Client) ToggleBookmark(
	ctx context.Context, carID uuid.UUID,
) (bool, error) {
	res := &struct {
		Saved bool `json:"saved"`
	}{}
	err := c.do(
		ctx, http.MethodPost, "/cars/"+carID.String()+"/bookmark", nil, res,
	)
	return res.Saved, err
}

// SavedByMe reports if the carID car is bookmarked by the session of
// the token. It is always false for the anonymous clients.
func (c *Client) SavedByMe(
	ctx context.Context, carID uuid.UUID,
) (bool, error) {
	res := &struct {
		SavedByMe bool `json:"savedByMe"`
	}{}
	err := c.do(ctx, http.MethodGet, "/cars/"+carID.String(), nil, res)
	return res.SavedByMe, err
}

// Settings fetches the visible settings of the server.
func (c *Client) Settings(ctx context.Context) (*model.Settings, error) {
	s := &model.Settings{}
	if err := c.do(ctx, http.MethodGet, "/settings", nil, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Me fetches the session of the token. Anonymous clients get nil
// without an error.
func (c *Client) Me(ctx context.Context) (*model.Session, error) {
	if c.token == "" {
		return nil, nil
	}
	s := &model.Session{}
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, s)
	var ce *cerr.Error
	if errors.As(err, &ce) && ce.HTTPStatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// do sends a request with the JSON encoded body (if not nil) and
// decodes the JSON response into res. Non-2xx responses are returned
// as *cerr.Error instances, holding the reported detail message.
func (c *Client) do(
	ctx context.Context, method, path string, body, res any,
) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", path, err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(
		ctx, method, c.baseURL+APIPath+path, r,
	)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}
	if res == nil || len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, res); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func statusError(status int, data []byte) error {
	er := &struct {
		Detail string `json:"detail"`
	}{}
	msg := http.StatusText(status)
	if json.Unmarshal(data, er) == nil && er.Detail != "" {
		msg = er.Detail
	} else if len(data) > 0 {
		msg = strings.TrimSpace(string(data))
	}
	return &cerr.Error{Err: errors.New(msg), HTTPStatusCode: status}
}
