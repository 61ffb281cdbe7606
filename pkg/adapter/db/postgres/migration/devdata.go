// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration

import (
	"context"
	"fmt"

	"github.com/momeni/carweb/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/carweb/pkg/core/model"
)

func intp(i int) *int {
	return &i
}

func floatp(f float64) *float64 {
	return &f
}

// devListings are inserted by InsertDevData. They cover several car
// types and all price buckets, so the listing filters may be tried.
var devListings = []model.Listing{
	{
		Car: model.Car{
			Name: "Corolla", Brand: "Toyota", Type: model.CarTypeSedan,
			Year: 2019, Mileage: 42000, Price: 9500,
			Description:  "Reliable daily driver with full service history.",
			Colors:       []string{"white"},
			Features:     []string{"bluetooth", "cruise control"},
			Transmission: model.TransmissionAutomatic,
			FuelType:     model.FuelTypePetrol,
			Location:     "Berlin",
		},
		Seller: model.Seller{
			Name: "Anna Keller", Email: "anna@example.com",
			City: "Berlin", Country: "Germany",
		},
		Specification: model.Specification{
			EngineCapacity: floatp(1.8), Horsepower: intp(139),
			Doors: intp(4), Seats: intp(5),
		},
	},
	{
		Car: model.Car{
			Name: "RAV4", Brand: "Toyota", Type: model.CarTypeSUV,
			Year: 2021, Mileage: 18000, Price: 27500,
			Description:  "Hybrid SUV with all wheel drive.",
			Colors:       []string{"blue", "black"},
			Features:     []string{"awd", "lane assist", "heated seats"},
			Transmission: model.TransmissionAutomatic,
			FuelType:     model.FuelTypeHybrid,
			Location:     "Munich",
		},
		Seller: model.Seller{
			Name: "Auto Haus Süd", Email: "sales@autohaus.example.com",
			City: "Munich", Country: "Germany",
			Website: "https://autohaus.example.com",
		},
		Specification: model.Specification{
			Horsepower: intp(219), Doors: intp(5), Seats: intp(5),
		},
	},
	{
		Car: model.Car{
			Name: "Golf", Brand: "Volkswagen", Type: model.CarTypeHatchback,
			Year: 2017, Mileage: 76000, Price: 12900,
			Description:  "Compact hatchback, manual gearbox.",
			Colors:       []string{"red"},
			Features:     []string{"parking sensors"},
			Transmission: model.TransmissionManual,
			FuelType:     model.FuelTypeDiesel,
			Location:     "Hamburg",
		},
		Seller: model.Seller{
			Name: "Jonas Weber", Phone: "+49 40 1234567",
			City: "Hamburg", Country: "Germany",
		},
	},
	{
		Car: model.Car{
			Name: "Model 3", Brand: "Tesla", Type: model.CarTypeSedan,
			Year: 2022, Mileage: 12000, Price: 38900,
			Description:  "Long range electric sedan with autopilot.",
			Colors:       []string{"white", "black"},
			Features:     []string{"autopilot", "glass roof"},
			Transmission: model.TransmissionAutomatic,
			FuelType:     model.FuelTypeElectric,
			Location:     "Cologne",
		},
		Seller: model.Seller{
			Name: "Lea Schmidt", Email: "lea@example.com",
			City: "Cologne", Country: "Germany",
		},
		Specification: model.Specification{
			Acceleration: floatp(4.4), TopSpeed: intp(233),
			Doors: intp(4), Seats: intp(5),
		},
	},
}

// InsertDevData creates a development user which owns a few listings.
func (i *Initializer) InsertDevData(ctx context.Context) error {
	u, err := usersrp.Upsert(ctx, i.tx, &model.User{
		Email: "dev@carweb.example.com",
		Name:  "Carweb Developer",
		Image: model.DefaultSellerImage,
	})
	if err != nil {
		return fmt.Errorf("creating dev user: %w", err)
	}
	for n := range devListings {
		l := devListings[n]
		l.Car.UserID = u.ID
		if l.Seller.Image == "" {
			l.Seller.Image = model.DefaultSellerImage
		}
		carID, err := carsrp.CreateCar(ctx, i.tx, &l.Car)
		if err != nil {
			return fmt.Errorf("creating car #%d: %w", n, err)
		}
		if err := carsrp.CreateSeller(ctx, i.tx, carID, &l.Seller); err != nil {
			return fmt.Errorf("creating seller #%d: %w", n, err)
		}
		err = carsrp.CreateSpecification(ctx, i.tx, carID, &l.Specification)
		if err != nil {
			return fmt.Errorf("creating specification #%d: %w", n, err)
		}
	}
	return nil
}
