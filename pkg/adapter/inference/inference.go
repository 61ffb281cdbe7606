// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package inference is a client of the text inference service which
// generates car details from a car name and finds the car which best
// matches a free text description. Generated car details are checked
// against an embedded JSON schema before they are decoded, so a
// malformed generation never reaches the use cases layer.
package inference

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed cardraft.schema.json
var carDraftSchema []byte

// MaxResponseSize is the largest accepted response body in bytes.
const MaxResponseSize = 1 << 20

// ErrResponseTooLarge indicates that the inference service responded
// with more than MaxResponseSize bytes.
var ErrResponseTooLarge = errors.New("inference response is too large")

// ErrSchemaViolation is wrapped by the errors of the generated car
// details which do not conform to the car draft schema.
var ErrSchemaViolation = errors.New("generated car violates schema")

// Config contains the inference client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls the inference service.
type Client struct {
	cfg    Config
	schema *gojsonschema.Schema
	http   *http.Client
}

// New instantiates a Client and compiles the car draft schema.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("inference base url is empty")
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	schema, err := gojsonschema.NewSchema(
		gojsonschema.NewBytesLoader(carDraftSchema),
	)
	if err != nil {
		return nil, fmt.Errorf("compiling car draft schema: %w", err)
	}
	return &Client{
		cfg:    cfg,
		schema: schema,
		http:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type candidate struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Brand        string             `json:"brand"`
	Type         model.CarType      `json:"type"`
	Year         int                `json:"year"`
	Price        float64            `json:"price"`
	Description  string             `json:"description"`
	Colors       []string           `json:"colors"`
	Features     []string           `json:"features"`
	Transmission model.Transmission `json:"transmission"`
	FuelType     model.FuelType     `json:"fuelType"`
}

type searchRequest struct {
	Description string      `json:"description"`
	Candidates  []candidate `json:"candidates"`
}

type searchResponse struct {
	Result string `json:"result"`
}

// GenerateCar asks for the details of the name car and validates them
// against the car draft schema.
func (c *Client) GenerateCar(
	ctx context.Context, name string,
) (*model.CarDraft, error) {
	prompt := fmt.Sprintf(
		"Generate the details of the car named %q as a JSON object.", name,
	)
	body, err := c.post(ctx, "/generate", generateRequest{Prompt: prompt})
	if err != nil {
		return nil, err
	}
	if err := c.Validate(body); err != nil {
		return nil, err
	}
	cd := &model.CarDraft{}
	if err := json.Unmarshal(body, cd); err != nil {
		return nil, fmt.Errorf("decoding car draft: %w", err)
	}
	return cd, nil
}

// Validate checks the doc JSON document against the car draft schema.
func (c *Client) Validate(doc []byte) error {
	res, err := c.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		msgs = append(msgs, re.String())
	}
	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
}

// SearchCar asks for the ID of the car which matches description among
// the candidates and returns the raw result.
func (c *Client) SearchCar(
	ctx context.Context, description string, candidates []model.Car,
) (string, error) {
	req := searchRequest{
		Description: description,
		Candidates:  make([]candidate, len(candidates)),
	}
	for i, car := range candidates {
		req.Candidates[i] = candidate{
			ID:           car.ID,
			Name:         car.Name,
			Brand:        car.Brand,
			Type:         car.Type,
			Year:         car.Year,
			Price:        car.Price,
			Description:  car.Description,
			Colors:       car.Colors,
			Features:     car.Features,
			Transmission: car.Transmission,
			FuelType:     car.FuelType,
		}
	}
	body, err := c.post(ctx, "/search", req)
	if err != nil {
		return "", err
	}
	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("decoding search response: %w", err)
	}
	return sr.Result, nil
}

func (c *Client) post(ctx context.Context, path string, v any) ([]byte, error) {
	reqBody, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(reqBody),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", path, err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("%s: %w", path, ErrResponseTooLarge)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	return body, nil
}
