// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSellerImage is the avatar which is used for the sellers who
// did not provide an image.
const DefaultSellerImage = "/profile.png"

// Seller is the contact information of the person (or dealer) who is
// selling a car. Each car has exactly one seller.
type Seller struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Website string `json:"website"`
	Image   string `json:"image"`
}

// ContactMessage is a message which a visitor sends to the seller of
// a car using the contact page.
type ContactMessage struct {
	CarID     uuid.UUID `json:"carId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrInvalidContactMessage is wrapped by the errors which are returned
// from the ContactMessage.Validate method.
var ErrInvalidContactMessage = errors.New("invalid contact message")

// Validate trims the msg fields in place and ensures that the
// required fields are present and the email address is well-formed.
func (msg *ContactMessage) Validate() error {
	msg.FirstName = strings.TrimSpace(msg.FirstName)
	msg.LastName = strings.TrimSpace(msg.LastName)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Phone = strings.TrimSpace(msg.Phone)
	msg.Content = strings.TrimSpace(msg.Content)
	switch {
	case msg.FirstName == "":
		return fmt.Errorf("%w: empty first name", ErrInvalidContactMessage)
	case msg.Content == "":
		return fmt.Errorf("%w: empty content", ErrInvalidContactMessage)
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return fmt.Errorf("%w: email: %w", ErrInvalidContactMessage, err)
	}
	return nil
}
