// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package aiuc contains the AI-assisted UseCase which fills the add-car
// draft from a car name, finds a car from a free text description,
// generates car images from text prompts, and uploads the car images.
// The inference and image services are consumed through the Inference
// and ImageService interfaces, so this package does not depend on their
// wire formats. Their failures are reported as generic cerr.BadGateway
// errors while the detailed causes are logged.
package aiuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/log"
	"github.com/momeni/carweb/pkg/core/model"
)

// Sentinel outputs of the inference search operation.
const (
	NoCarFoundOutput  = "No car found"
	SearchErrorOutput = "Error generating car search"
)

// Minimum lengths of the image generation arguments.
const (
	MinImageDescriptionLen = 5
	MinImageNameLen        = 3
)

var (
	// ErrEmptyName indicates a missing car name for autofill.
	ErrEmptyName = errors.New("empty car name")

	// ErrEmptyDescription indicates a missing description for search.
	ErrEmptyDescription = errors.New("empty car description")

	// ErrShortImagePrompt indicates that image description or name
	// are too short for image generation.
	ErrShortImagePrompt = errors.New("image description or name is too short")

	// ErrEmptyImage indicates an upload request without any data.
	ErrEmptyImage = errors.New("empty image")

	// ErrNoMatch indicates that no single car matched a description.
	ErrNoMatch = errors.New("no matching car")

	// ErrGenerationFailed is reported when the car details could not
	// be generated.
	ErrGenerationFailed = errors.New("failed to generate car details")

	// ErrSearchFailed is reported when the search could not run.
	ErrSearchFailed = errors.New("failed to search cars")

	// ErrImageGenerationFailed is reported when the image generation
	// could not complete.
	ErrImageGenerationFailed = errors.New("failed to generate image")

	// ErrUploadFailed is reported when an image could not be uploaded.
	ErrUploadFailed = errors.New("failed to upload image")
)

// Inference is the text inference service.
type Inference interface {
	// GenerateCar returns the details of the name car. The returned
	// draft is checked against the draft JSON schema, but its enum
	// values are validated by the caller.
	GenerateCar(ctx context.Context, name string) (*model.CarDraft, error)

	// SearchCar returns the raw output of the service which should be
	// the ID of the car which matches description among candidates.
	SearchCar(
		ctx context.Context, description string, candidates []model.Car,
	) (string, error)
}

// ImageService generates and stores the car images.
type ImageService interface {
	// Generate creates a JPEG image named name.jpg from description.
	Generate(
		ctx context.Context, description, name string,
	) (*model.GeneratedImage, error)

	// Upload stores data as fileName and returns its file path.
	// Cancelling ctx aborts the upload.
	Upload(
		ctx context.Context, data []byte, fileName string,
		onProgress model.ProgressFunc,
	) (string, error)
}

// ImageProcessor prepares an uploaded image, e.g., by downscaling it.
type ImageProcessor interface {
	Process(data []byte) ([]byte, error)
}

// Catalog provides the candidate cars for the search operation.
type Catalog interface {
	ListAll(ctx context.Context) ([]model.Car, error)
}

// Drafts keeps the add-car drafts.
type Drafts interface {
	ReplaceCar(
		ctx context.Context, s *model.Session, cd model.CarDraft,
	) (*model.Draft, error)
	AddImage(
		ctx context.Context, s *model.Session, path string,
	) (*model.Draft, error)
}

// UseCase represents the AI-assisted use case.
type UseCase struct {
	inference Inference
	images    ImageService
	processor ImageProcessor
	catalog   Catalog
	drafts    Drafts
}

// New instantiates an AI-assisted use case.
func New(
	inf Inference, imgs ImageService, proc ImageProcessor,
	cat Catalog, d Drafts,
) *UseCase {
	return &UseCase{
		inference: inf,
		images:    imgs,
		processor: proc,
		catalog:   cat,
		drafts:    d,
	}
}

// Autofill use case generates the details of the name car and replaces
// the car part of the s session user draft with them. The draft images
// are kept. If generation or validation fails, the draft is left
// unchanged and a cerr.BadGateway error is returned.
func (uc *UseCase) Autofill(
	ctx context.Context, s *model.Session, name string,
) (*model.Draft, error) {
	if err := s.Require(); err != nil {
		return nil, cerr.Authentication(err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, cerr.BadRequest(ErrEmptyName)
	}
	cd, err := uc.inference.GenerateCar(ctx, name)
	if err == nil {
		err = cd.ValidateEnums()
	}
	if err != nil {
		log.Warn(
			ctx, "car details generation failed",
			slog.String("name", name), log.Err("err", err),
		)
		return nil, cerr.BadGateway(ErrGenerationFailed)
	}
	if cd.Seller.Image == "" {
		cd.Seller.Image = model.DefaultSellerImage
	}
	d, err := uc.drafts.ReplaceCar(ctx, s, *cd)
	if err != nil {
		return nil, fmt.Errorf("replacing draft car: %w", err)
	}
	return d, nil
}

// FindCar use case returns the ID of the car which best matches the
// description. The inference output must be exactly one ID among the
// existing cars. Otherwise (e.g., for an empty output, multiple IDs,
// or an unknown ID), the description is considered unmatched and a
// cerr.NotFound error is returned.
func (uc *UseCase) FindCar(
	ctx context.Context, description string,
) (uuid.UUID, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return uuid.Nil, cerr.BadRequest(ErrEmptyDescription)
	}
	candidates, err := uc.catalog.ListAll(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("listing candidates: %w", err)
	}
	if len(candidates) == 0 {
		return uuid.Nil, cerr.NotFound(ErrNoMatch)
	}
	out, err := uc.inference.SearchCar(ctx, description, candidates)
	if err != nil {
		log.Warn(ctx, "car search failed", log.Err("err", err))
		return uuid.Nil, cerr.BadGateway(ErrSearchFailed)
	}
	return MatchOutput(out, candidates)
}

// MatchOutput interprets the out inference search output, returning
// the matched car ID among the candidates.
func MatchOutput(out string, candidates []model.Car) (uuid.UUID, error) {
	out = strings.Trim(out, " \t\r\n\"'`")
	switch out {
	case SearchErrorOutput:
		return uuid.Nil, cerr.BadGateway(ErrSearchFailed)
	case NoCarFoundOutput, "":
		return uuid.Nil, cerr.NotFound(ErrNoMatch)
	}
	id, err := uuid.Parse(out)
	if err != nil {
		return uuid.Nil, cerr.NotFound(ErrNoMatch)
	}
	known := slices.ContainsFunc(candidates, func(c model.Car) bool {
		return c.ID == id
	})
	if !known {
		return uuid.Nil, cerr.NotFound(ErrNoMatch)
	}
	return id, nil
}

// GenerateImage use case generates a car image from description and
// names it as name.jpg. Failures are not retried.
func (uc *UseCase) GenerateImage(
	ctx context.Context, description, name string,
) (*model.GeneratedImage, error) {
	description = strings.TrimSpace(description)
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(description) < MinImageDescriptionLen ||
		utf8.RuneCountInString(name) < MinImageNameLen {
		return nil, cerr.BadRequest(ErrShortImagePrompt)
	}
	img, err := uc.images.Generate(ctx, description, name)
	if err != nil {
		log.Warn(
			ctx, "image generation failed",
			slog.String("name", name), log.Err("err", err),
		)
		return nil, cerr.BadGateway(ErrImageGenerationFailed)
	}
	return img, nil
}

// UploadImage use case processes and uploads data as a car image and
// appends its path to the s session user draft. The onProgress
// function (if not nil) observes the upload progress. Cancelling ctx
// aborts the upload. The upload failures are reported as a generic
// error while their typed causes are logged.
func (uc *UseCase) UploadImage(
	ctx context.Context, s *model.Session, data []byte, fileName string,
	onProgress model.ProgressFunc,
) (*model.Draft, error) {
	if err := s.Require(); err != nil {
		return nil, cerr.Authentication(err)
	}
	if len(data) == 0 {
		return nil, cerr.BadRequest(ErrEmptyImage)
	}
	img, err := uc.processor.Process(data)
	if err != nil {
		return nil, cerr.BadRequest(err)
	}
	path, err := uc.images.Upload(ctx, img, fileName, onProgress)
	if err != nil {
		attrs := []slog.Attr{
			log.Valuer("session", s), slog.String("file", fileName),
			log.Err("err", err),
		}
		if errors.Is(err, context.Canceled) {
			log.Info(ctx, "image upload is aborted", attrs...)
		} else {
			log.Warn(ctx, "image upload failed", attrs...)
		}
		return nil, cerr.BadGateway(ErrUploadFailed)
	}
	d, err := uc.drafts.AddImage(ctx, s, path)
	if err != nil {
		return nil, fmt.Errorf("adding uploaded image to draft: %w", err)
	}
	return d, nil
}
