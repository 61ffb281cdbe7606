// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/carweb/internal/test/dbcontainer"
	"github.com/momeni/carweb/pkg/adapter/auth/session"
	"github.com/momeni/carweb/pkg/adapter/cache/ttlcache"
	"github.com/momeni/carweb/pkg/adapter/db/postgres"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/bookmarksrp"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/contactsrp"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/draftsrp"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/carweb/pkg/adapter/restful/gin"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/routes"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/usecase/aiuc"
	"github.com/momeni/carweb/pkg/core/usecase/bookmarksuc"
	"github.com/momeni/carweb/pkg/core/usecase/carsuc"
	"github.com/momeni/carweb/pkg/core/usecase/draftuc"
	"github.com/momeni/carweb/pkg/core/usecase/usersuc"
	"github.com/stretchr/testify/suite"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx    context.Context
	Pg     *sqltestutil.PostgresContainer
	Pool   *postgres.Pool
	Tokens *session.Manager
	Cars   *carsuc.UseCase
	Users  *usersuc.UseCase
	Gin    *gin.Engine
}

func TestIntegrationGinTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping the database container in short mode")
	}
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	err := dbcontainer.CreateTables(igts.Ctx, igts.Pool, true)
	igts.Require().NoError(err, "failed to create tables")

	carsRepo := carsrp.New()
	cars, err := carsuc.New(
		igts.Pool, carsRepo, contactsrp.New(),
		ttlcache.New[[]model.Car](),
	)
	igts.Require().NoError(err)
	igts.Cars = cars
	igts.Tokens, err = session.New(
		"integration-test-secret", "carweb", time.Hour,
	)
	igts.Require().NoError(err)
	drafts := draftuc.New(igts.Pool, draftsrp.New())
	igts.Users = usersuc.New(igts.Pool, usersrp.New())

	igts.Gin = gin.New(gin.Logger(), gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	routes.Mount(igts.Gin, &routes.UseCases{
		Cars:      cars,
		Bookmarks: bookmarksuc.New(igts.Pool, bookmarksrp.New(), carsRepo),
		Drafts:    drafts,
		AI: aiuc.New(
			&fakeInference{}, fakeImages{}, identityProcessor{},
			cars, drafts,
		),
		Users:  igts.Users,
		Tokens: igts.Tokens,
	})
}

func (igts *IntegrationGinTestSuite) send(
	method, path, token string, body any,
) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		igts.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	return w
}

func (igts *IntegrationGinTestSuite) listCars(query string) []model.Car {
	w := igts.send(http.MethodGet, base+"cars?"+query, "", nil)
	igts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var cars []model.Car
	igts.Require().NoError(json.Unmarshal(w.Body.Bytes(), &cars))
	return cars
}

func (igts *IntegrationGinTestSuite) TestListByType() {
	sedans := igts.listCars("type=sedan")
	igts.NotEmpty(sedans)
	for _, c := range sedans {
		igts.Equal(model.CarTypeSedan, c.Type)
	}
	all := igts.listCars("")
	igts.GreaterOrEqual(len(all), len(sedans))
	igts.LessOrEqual(len(all), model.ListingPageSize)
	for i := 1; i < len(all); i++ {
		igts.False(
			all[i].CreatedAt.After(all[i-1].CreatedAt),
			"cars must be listed newest first",
		)
	}
}

func (igts *IntegrationGinTestSuite) search(query string) []string {
	w := igts.send(http.MethodGet, base+"cars/search?"+query, "", nil)
	igts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var cars []model.Car
	igts.Require().NoError(json.Unmarshal(w.Body.Bytes(), &cars))
	names := []string{}
	for _, c := range cars {
		names = append(names, c.Name)
	}
	return names
}

func (igts *IntegrationGinTestSuite) TestSearch() {
	w := igts.send(http.MethodGet, base+"cars/search?q=toyota&price=all", "", nil)
	igts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var cars []model.Car
	igts.Require().NoError(json.Unmarshal(w.Body.Bytes(), &cars))
	igts.NotEmpty(cars)
	for _, c := range cars {
		igts.Equal("Toyota", c.Brand)
	}

	w = igts.send(http.MethodGet, base+"cars/search?q=toyota", "", nil)
	igts.Equal(http.StatusBadRequest, w.Code, "price range is required")

	w = igts.send(http.MethodGet, base+"cars/search?q=&price=all", "", nil)
	igts.Equal(http.StatusBadRequest, w.Code)
}

func (igts *IntegrationGinTestSuite) TestSearchBucketEdges() {
	s, err := igts.Users.SignIn(igts.Ctx, &model.User{
		Email: "edges@example.com", Name: "Edges",
	})
	igts.Require().NoError(err)
	for _, c := range []struct {
		name  string
		price float64
	}{
		{"Edge 0", 0},
		{"Edge 10000", 10000},
		{"Edge 10000.5", 10000.5},
		{"Edge 30000", 30000},
		{"Edge 30001", 30001},
		{"Edge 100%", 5000},
	} {
		_, err := igts.Cars.Create(igts.Ctx, s, &model.Listing{
			Car: model.Car{
				Name: c.name, Brand: "Edgeworth", Type: model.CarTypeCoupe,
				Year: 2020, Price: c.price,
				Transmission: model.TransmissionManual,
				FuelType:     model.FuelTypePetrol,
			},
			Seller: model.Seller{Name: "Edges"},
		})
		igts.Require().NoError(err)
	}

	for _, tc := range []struct {
		query    string
		expected []string
	}{
		{"q=edgeworth&price=0-10000", []string{"Edge 100%", "Edge 10000", "Edge 0"}},
		{"q=edgeworth&price=10000-20000", []string{"Edge 10000.5"}},
		{"q=edgeworth&price=20000-30000", []string{"Edge 30000"}},
		{"q=edgeworth&price=30000%2B", []string{"Edge 30001"}},
		{"q=0%25&price=all", []string{"Edge 100%"}},
		{"q=e_g&price=all", []string{}},
	} {
		igts.Equal(tc.expected, igts.search(tc.query), tc.query)
	}
}

func (igts *IntegrationGinTestSuite) TestCreateBookmarkAndContact() {
	s, err := igts.Users.SignIn(igts.Ctx, &model.User{
		Email: "seller@example.com", Name: "Seller",
	})
	igts.Require().NoError(err)
	token, err := igts.Tokens.Issue(s)
	igts.Require().NoError(err)

	w := igts.send(http.MethodPost, base+"cars", token, sampleDraft("Prius"))
	igts.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	res := &struct{ ID uuid.UUID }{}
	igts.Require().NoError(json.Unmarshal(w.Body.Bytes(), res))

	w = igts.send(http.MethodGet, base+"cars/"+res.ID.String(), token, nil)
	igts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	detail := &model.CarDetail{}
	igts.Require().NoError(json.Unmarshal(w.Body.Bytes(), detail))
	igts.Equal("Prius", detail.Name)
	igts.Equal(s.UserID, detail.UserID)
	igts.Empty(detail.SavedBy)

	w = igts.send(
		http.MethodPost, base+"cars/"+res.ID.String()+"/bookmark", token, nil,
	)
	igts.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = igts.send(http.MethodGet, base+"cars/"+res.ID.String(), token, nil)
	igts.Require().NoError(json.Unmarshal(w.Body.Bytes(), detail))
	igts.Equal([]uuid.UUID{s.UserID}, detail.SavedBy)

	w = igts.send(
		http.MethodPost, base+"cars/"+res.ID.String()+"/contact", "",
		map[string]string{
			"firstName": "Ann", "email": "ann@example.com",
			"content": "Is it still available?",
		},
	)
	igts.Equal(http.StatusNoContent, w.Code, w.Body.String())

	w = igts.send(
		http.MethodPost, base+"cars/"+uuid.NewString()+"/bookmark", token, nil,
	)
	igts.Equal(http.StatusNotFound, w.Code)
}
