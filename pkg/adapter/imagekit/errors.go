// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package imagekit

import "fmt"

// AbortError indicates that an upload was cancelled by its context.
// It wraps the context error.
type AbortError struct {
	Err error
}

func (e *AbortError) Error() string {
	return "upload aborted: " + e.Err.Error()
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// InvalidRequestError indicates that the image service rejected a
// request with a 4xx status code.
type InvalidRequestError struct {
	StatusCode int
	Message    string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request (%d): %s", e.StatusCode, e.Message)
}

// NetworkError indicates that the image service was not reachable or
// the connection broke before a response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError indicates that the image service failed with a 5xx
// status code (or any other unexpected status code).
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}
