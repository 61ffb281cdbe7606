// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package aiuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/carweb/internal/test/memdb"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/usecase/aiuc"
	"github.com/momeni/carweb/pkg/core/usecase/draftuc"
	"github.com/stretchr/testify/suite"
)

type fakeInference struct {
	draft     *model.CarDraft
	genErr    error
	output    string
	searchErr error
}

func (fi *fakeInference) GenerateCar(context.Context, string) (*model.CarDraft, error) {
	if fi.genErr != nil {
		return nil, fi.genErr
	}
	cd := *fi.draft
	return &cd, nil
}

func (fi *fakeInference) SearchCar(
	context.Context, string, []model.Car,
) (string, error) {
	return fi.output, fi.searchErr
}

type fakeImages struct {
	path      string
	uploadErr error
	genErr    error
	uploaded  []byte
}

func (fi *fakeImages) Generate(
	_ context.Context, _, name string,
) (*model.GeneratedImage, error) {
	if fi.genErr != nil {
		return nil, fi.genErr
	}
	return &model.GeneratedImage{
		Base64Data: "data:image/jpeg;base64,AA==", Name: name + ".jpg",
	}, nil
}

func (fi *fakeImages) Upload(
	_ context.Context, data []byte, _ string, onProgress model.ProgressFunc,
) (string, error) {
	if fi.uploadErr != nil {
		return "", fi.uploadErr
	}
	fi.uploaded = data
	if onProgress != nil {
		onProgress(int64(len(data)), int64(len(data)))
	}
	return fi.path, nil
}

type upperProcessor struct{}

func (upperProcessor) Process(data []byte) ([]byte, error) {
	if string(data) == "garbage" {
		return nil, errors.New("unsupported image format")
	}
	return append([]byte("jpeg:"), data...), nil
}

type staticCatalog []model.Car

func (sc staticCatalog) ListAll(context.Context) ([]model.Car, error) {
	return sc, nil
}

type AIUseCaseTestSuite struct {
	suite.Suite

	Ctx     context.Context
	Inf     *fakeInference
	Images  *fakeImages
	Drafts  *draftuc.UseCase
	Catalog staticCatalog
	UC      *aiuc.UseCase
	S       *model.Session
}

func TestAIUseCaseTestSuite(t *testing.T) {
	suite.Run(t, &AIUseCaseTestSuite{Ctx: context.Background()})
}

func (ats *AIUseCaseTestSuite) SetupTest() {
	ats.Inf = &fakeInference{draft: &model.CarDraft{
		Name: "Civic", Brand: "Honda", Type: model.CarTypeSedan,
		Transmission: model.TransmissionAutomatic,
		FuelType:     model.FuelTypePetrol,
		Seller:       model.Seller{Name: "Max"},
	}}
	ats.Images = &fakeImages{path: "/cars/civic_1.jpg"}
	ats.Drafts = draftuc.New(memdb.New(), memdb.Drafts{})
	ats.Catalog = staticCatalog{{ID: uuid.New()}, {ID: uuid.New()}}
	ats.UC = aiuc.New(ats.Inf, ats.Images, upperProcessor{}, ats.Catalog, ats.Drafts)
	ats.S = &model.Session{UserID: uuid.New()}
}

func (ats *AIUseCaseTestSuite) status(err error) int {
	var ce *cerr.Error
	ats.Require().True(errors.As(err, &ce), "expected a cerr.Error: %v", err)
	return ce.HTTPStatusCode
}

func (ats *AIUseCaseTestSuite) TestAutofill() {
	_, err := ats.Drafts.AddImage(ats.Ctx, ats.S, "/cars/old.jpg")
	ats.Require().NoError(err)

	d, err := ats.UC.Autofill(ats.Ctx, ats.S, " Honda Civic ")
	ats.Require().NoError(err)
	ats.Equal("Civic", d.Car.Name)
	ats.Equal(model.DefaultSellerImage, d.Car.Seller.Image)
	ats.Equal([]string{"/cars/old.jpg"}, d.Images, "images must be kept")
}

func (ats *AIUseCaseTestSuite) TestAutofillFailureKeepsDraft() {
	before := model.CarDraft{Name: "Mine"}
	_, err := ats.Drafts.ReplaceCar(ats.Ctx, ats.S, before)
	ats.Require().NoError(err)

	ats.Inf.genErr = errors.New("timeout")
	_, err = ats.UC.Autofill(ats.Ctx, ats.S, "Civic")
	ats.Equal(http.StatusBadGateway, ats.status(err))
	ats.ErrorIs(err, aiuc.ErrGenerationFailed)

	ats.Inf.genErr = nil
	ats.Inf.draft.Type = model.CarType("TANK")
	_, err = ats.UC.Autofill(ats.Ctx, ats.S, "Civic")
	ats.Equal(http.StatusBadGateway, ats.status(err))

	d, err := ats.Drafts.Load(ats.Ctx, ats.S)
	ats.Require().NoError(err)
	ats.Equal(before, d.Car, "draft must be untouched")
}

func (ats *AIUseCaseTestSuite) TestAutofillValidation() {
	_, err := ats.UC.Autofill(ats.Ctx, nil, "Civic")
	ats.Equal(http.StatusUnauthorized, ats.status(err))
	_, err = ats.UC.Autofill(ats.Ctx, ats.S, "  ")
	ats.Equal(http.StatusBadRequest, ats.status(err))
}

func (ats *AIUseCaseTestSuite) TestFindCar() {
	known := ats.Catalog[1].ID
	for _, tc := range []struct {
		name   string
		output string
		status int
	}{
		{"exact id", known.String(), 0},
		{"quoted id", " \"" + known.String() + "\"\n", 0},
		{"no car", aiuc.NoCarFoundOutput, http.StatusNotFound},
		{"search error", aiuc.SearchErrorOutput, http.StatusBadGateway},
		{"empty", "", http.StatusNotFound},
		{"unknown id", uuid.NewString(), http.StatusNotFound},
		{
			"ambiguous",
			ats.Catalog[0].ID.String() + "," + known.String(),
			http.StatusNotFound,
		},
		{"prose", "The best match is the blue one", http.StatusNotFound},
	} {
		ats.Run(tc.name, func() {
			ats.Inf.output = tc.output
			id, err := ats.UC.FindCar(ats.Ctx, "a blue car")
			if tc.status == 0 {
				ats.Require().NoError(err)
				ats.Equal(known, id)
				return
			}
			ats.Equal(tc.status, ats.status(err))
			ats.Equal(uuid.Nil, id)
		})
	}
}

func (ats *AIUseCaseTestSuite) TestFindCarFailures() {
	_, err := ats.UC.FindCar(ats.Ctx, "")
	ats.Equal(http.StatusBadRequest, ats.status(err))

	ats.Inf.searchErr = errors.New("connection refused")
	_, err = ats.UC.FindCar(ats.Ctx, "a blue car")
	ats.Equal(http.StatusBadGateway, ats.status(err))
}

func (ats *AIUseCaseTestSuite) TestGenerateImage() {
	img, err := ats.UC.GenerateImage(ats.Ctx, "red sports car", "ferrari")
	ats.Require().NoError(err)
	ats.Equal("ferrari.jpg", img.Name)

	_, err = ats.UC.GenerateImage(ats.Ctx, "red", "ferrari")
	ats.Equal(http.StatusBadRequest, ats.status(err))
	_, err = ats.UC.GenerateImage(ats.Ctx, "red sports car", "fe")
	ats.Equal(http.StatusBadRequest, ats.status(err))

	ats.Images.genErr = errors.New("status 500")
	_, err = ats.UC.GenerateImage(ats.Ctx, "red sports car", "ferrari")
	ats.Equal(http.StatusBadGateway, ats.status(err))
}

func (ats *AIUseCaseTestSuite) TestUploadImage() {
	var sent, total int64
	d, err := ats.UC.UploadImage(
		ats.Ctx, ats.S, []byte("png"), "civic.png",
		func(s, t int64) { sent, total = s, t },
	)
	ats.Require().NoError(err)
	ats.Equal([]string{"/cars/civic_1.jpg"}, d.Images)
	ats.Equal("jpeg:png", string(ats.Images.uploaded))
	ats.Equal(total, sent)

	_, err = ats.UC.UploadImage(ats.Ctx, ats.S, []byte("garbage"), "x", nil)
	ats.Equal(http.StatusBadRequest, ats.status(err))

	ats.Images.uploadErr = context.Canceled
	_, err = ats.UC.UploadImage(ats.Ctx, ats.S, []byte("png"), "x", nil)
	ats.Equal(http.StatusBadGateway, ats.status(err))
	ats.ErrorIs(err, aiuc.ErrUploadFailed)

	d, err = ats.Drafts.Load(ats.Ctx, ats.S)
	ats.Require().NoError(err)
	ats.Len(d.Images, 1, "failed uploads may not change the draft")

	_, err = ats.UC.UploadImage(ats.Ctx, nil, []byte("png"), "x", nil)
	ats.Equal(http.StatusUnauthorized, ats.status(err))
}
