// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package imagekit

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Defaults of the Processor.
const (
	DefaultMaxDimension = 1024
	DefaultJPEGQuality  = 85
	DefaultMaxPixels    = 40_000_000
)

// ErrUnsupportedImage indicates that the uploaded bytes are not a
// JPEG, PNG, or WebP image, or that the image is too large.
var ErrUnsupportedImage = errors.New("unsupported image format")

type codec struct {
	config func(io.Reader) (image.Config, error)
	decode func(io.Reader) (image.Image, error)
}

var codecs = map[string]codec{
	"image/jpeg": {jpeg.DecodeConfig, jpeg.Decode},
	"image/png":  {png.DecodeConfig, png.Decode},
	"image/webp": {webp.DecodeConfig, webp.Decode},
}

// Processor prepares the car images before their upload. Images are
// sniffed (ignoring their claimed file types), downscaled so neither
// dimension exceeds MaxDimension, and re-encoded as JPEG.
// Images which their headers declare more than MaxPixels pixels are
// rejected before decoding, since decoding allocates the whole canvas.
type Processor struct {
	MaxDimension int
	Quality      int
	MaxPixels    int64
}

// NewProcessor instantiates a Processor with the default settings.
func NewProcessor() *Processor {
	return &Processor{
		MaxDimension: DefaultMaxDimension,
		Quality:      DefaultJPEGQuality,
		MaxPixels:    DefaultMaxPixels,
	}
}

// Process returns the JPEG encoding of the data image.
func (p *Processor) Process(data []byte) ([]byte, error) {
	mime := http.DetectContentType(data)
	cd, ok := codecs[mime]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
	}
	cfg, err := cd.config(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s header: %w", mime, err)
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > p.MaxPixels {
		return nil, fmt.Errorf(
			"%w: %dx%d exceeds %d pixels",
			ErrUnsupportedImage, cfg.Width, cfg.Height, p.MaxPixels,
		)
	}
	img, err := cd.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", mime, err)
	}
	img = downscale(img, p.MaxDimension)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// downscale keeps the aspect ratio of img while fitting it in a square
// of maxDim pixels. Smaller images are returned unchanged.
func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	nw, nh := maxDim, maxDim
	if w > h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
