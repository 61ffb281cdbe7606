// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tables defines the GORM structs which describe the carweb
// tables. These structs are shared by the repository packages and the
// schema initializer (which creates tables using the GORM migrator).
// Models of the pkg/core/model package carry no ORM tags, so each
// table struct provides conversion methods to and from its model.
package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/momeni/carweb/pkg/core/model"
)

// Car is a row of the cars table. Its set-like columns (images,
// colors, and features) are stored as text[] arrays.
type Car struct {
	ID           uuid.UUID      `gorm:"primaryKey;type:uuid"`
	Name         string         `gorm:"size:255;not null"`
	Brand        string         `gorm:"size:255;not null;index"`
	Type         string         `gorm:"type:varchar(16);not null;index"`
	Year         int            `gorm:"not null"`
	Mileage      int            `gorm:"not null;default:0"`
	Price        float64        `gorm:"type:double precision;not null;index"`
	Description  string         `gorm:"type:text"`
	Images       pq.StringArray `gorm:"type:text[]"`
	Colors       pq.StringArray `gorm:"type:text[]"`
	Features     pq.StringArray `gorm:"type:text[]"`
	Transmission string         `gorm:"type:varchar(16);not null"`
	FuelType     string         `gorm:"type:varchar(16);not null"`
	Location     string         `gorm:"size:255"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	User         *User          `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"not null;index"`
	UpdatedAt    time.Time      `gorm:"not null"`
}

// NewCar converts the c model into a row. Nil slices are stored as
// empty arrays.
func NewCar(c *model.Car) *Car {
	return &Car{
		ID:           c.ID,
		Name:         c.Name,
		Brand:        c.Brand,
		Type:         string(c.Type),
		Year:         c.Year,
		Mileage:      c.Mileage,
		Price:        c.Price,
		Description:  c.Description,
		Images:       nonNil(c.Images),
		Colors:       nonNil(c.Colors),
		Features:     nonNil(c.Features),
		Transmission: string(c.Transmission),
		FuelType:     string(c.FuelType),
		Location:     c.Location,
		UserID:       c.UserID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func nonNil(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}

// Model converts the row into a car model.
func (c *Car) Model() model.Car {
	return model.Car{
		ID:           c.ID,
		Name:         c.Name,
		Brand:        c.Brand,
		Type:         model.CarType(c.Type),
		Year:         c.Year,
		Mileage:      c.Mileage,
		Price:        c.Price,
		Description:  c.Description,
		Images:       []string(nonNil(c.Images)),
		Colors:       []string(nonNil(c.Colors)),
		Features:     []string(nonNil(c.Features)),
		Transmission: model.Transmission(c.Transmission),
		FuelType:     model.FuelType(c.FuelType),
		Location:     c.Location,
		UserID:       c.UserID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// Cars converts a slice of rows into a slice of car models.
func Cars(rows []Car) []model.Car {
	cars := make([]model.Car, len(rows))
	for i := range rows {
		cars[i] = rows[i].Model()
	}
	return cars
}

// CarSeller is a row of the car_sellers table. The car_id column is
// both its primary key and a foreign key, so each car has at most one
// seller row.
type CarSeller struct {
	CarID   uuid.UUID `gorm:"primaryKey;type:uuid"`
	Car     *Car      `gorm:"constraint:OnDelete:CASCADE"`
	Name    string    `gorm:"size:255;not null"`
	Phone   string    `gorm:"size:64"`
	Email   string    `gorm:"size:255"`
	Address string    `gorm:"size:255"`
	City    string    `gorm:"size:128"`
	State   string    `gorm:"size:128"`
	Zip     string    `gorm:"size:32"`
	Country string    `gorm:"size:128"`
	Website string    `gorm:"size:255"`
	Image   string    `gorm:"size:512"`
}

// NewCarSeller converts the s model of the carID car into a row.
func NewCarSeller(carID uuid.UUID, s *model.Seller) *CarSeller {
	return &CarSeller{
		CarID:   carID,
		Name:    s.Name,
		Phone:   s.Phone,
		Email:   s.Email,
		Address: s.Address,
		City:    s.City,
		State:   s.State,
		Zip:     s.Zip,
		Country: s.Country,
		Website: s.Website,
		Image:   s.Image,
	}
}

// Model converts the row into a seller model.
func (cs *CarSeller) Model() *model.Seller {
	return &model.Seller{
		Name:    cs.Name,
		Phone:   cs.Phone,
		Email:   cs.Email,
		Address: cs.Address,
		City:    cs.City,
		State:   cs.State,
		Zip:     cs.Zip,
		Country: cs.Country,
		Website: cs.Website,
		Image:   cs.Image,
	}
}

// CarSpecification is a row of the car_specifications table.
// Similar to CarSeller, each car has at most one specification row.
// The check constraints reject the physically impossible values.
type CarSpecification struct {
	CarID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	Car            *Car      `gorm:"constraint:OnDelete:CASCADE"`
	EngineCapacity *float64  `gorm:"check:engine_capacity >= 0"`
	Horsepower     *int      `gorm:"check:horsepower >= 0"`
	Torque         *int      `gorm:"check:torque >= 0"`
	Acceleration   *float64  `gorm:"check:acceleration >= 0"`
	TopSpeed       *int      `gorm:"check:top_speed >= 0"`
	Doors          *int      `gorm:"check:doors >= 0"`
	Seats          *int      `gorm:"check:seats >= 0"`
	Length         *float64
	Width          *float64
	Height         *float64
	Weight         *float64
}

// NewCarSpecification converts the s model of the carID car into a row.
func NewCarSpecification(
	carID uuid.UUID, s *model.Specification,
) *CarSpecification {
	return &CarSpecification{
		CarID:          carID,
		EngineCapacity: s.EngineCapacity,
		Horsepower:     s.Horsepower,
		Torque:         s.Torque,
		Acceleration:   s.Acceleration,
		TopSpeed:       s.TopSpeed,
		Doors:          s.Doors,
		Seats:          s.Seats,
		Length:         s.Length,
		Width:          s.Width,
		Height:         s.Height,
		Weight:         s.Weight,
	}
}

// Model converts the row into a specification model.
func (cs *CarSpecification) Model() model.Specification {
	return model.Specification{
		EngineCapacity: cs.EngineCapacity,
		Horsepower:     cs.Horsepower,
		Torque:         cs.Torque,
		Acceleration:   cs.Acceleration,
		TopSpeed:       cs.TopSpeed,
		Doors:          cs.Doors,
		Seats:          cs.Seats,
		Length:         cs.Length,
		Width:          cs.Width,
		Height:         cs.Height,
		Weight:         cs.Weight,
	}
}

// User is a row of the users table.
type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Name      string    `gorm:"size:255"`
	Image     string    `gorm:"size:512"`
	GitHubID  int64     `gorm:"column:github_id;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Model converts the row into a user model.
func (u *User) Model() *model.User {
	return &model.User{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Image:    u.Image,
		GitHubID: u.GitHubID,
	}
}

// Bookmark is a row of the bookmarks table which relates a user with
// a car which that user has saved.
type Bookmark struct {
	UserID    uuid.UUID `gorm:"primaryKey;type:uuid"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	CarID     uuid.UUID `gorm:"primaryKey;type:uuid;index"`
	Car       *Car      `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null"`
}

// CarDraft is a row of the car_drafts table. The draft contents are
// kept as a JSON document, so the draft format may evolve without
// altering the table.
type CarDraft struct {
	UserID    uuid.UUID `gorm:"primaryKey;type:uuid"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	Name      string    `gorm:"primaryKey;size:64"`
	Data      string    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ContactMessage is a row of the contact_messages table.
type ContactMessage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CarID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Car       *Car      `gorm:"constraint:OnDelete:CASCADE"`
	FirstName string    `gorm:"size:128;not null"`
	LastName  string    `gorm:"size:128"`
	Email     string    `gorm:"size:255;not null"`
	Phone     string    `gorm:"size:64"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// All lists the table structs in their creation order, so referenced
// tables are created before the referencing tables.
func All() []any {
	return []any{
		&User{}, &Car{}, &CarSeller{}, &CarSpecification{},
		&Bookmark{}, &CarDraft{}, &ContactMessage{},
	}
}
