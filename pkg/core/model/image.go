// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// GeneratedImage is an image which is generated from a text prompt.
// Its data is kept as a data URL, so web clients may preview it before
// uploading it as a car image.
type GeneratedImage struct {
	Base64Data string `json:"base64Data"`
	Name       string `json:"name"`
}

// ProgressFunc receives the number of sent bytes out of the total bytes
// while an upload is in progress.
type ProgressFunc func(sent, total int64)
