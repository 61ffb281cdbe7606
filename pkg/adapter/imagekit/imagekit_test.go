// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package imagekit

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
	srv     *httptest.Server
	handler http.HandlerFunc
	client  *Client
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (ts *ClientTestSuite) SetupTest() {
	ts.srv = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			ts.handler(w, r)
		},
	))
	c, err := New(Config{
		URLEndpoint: ts.srv.URL + "/demo/",
		UploadURL:   ts.srv.URL + "/upload",
		Folder:      "cars",
		PrivateKey:  "private_key",
	})
	ts.Require().NoError(err)
	ts.client = c
}

func (ts *ClientTestSuite) TearDownTest() {
	ts.srv.Close()
}

func (ts *ClientTestSuite) TestGenerate() {
	ts.handler = func(w http.ResponseWriter, r *http.Request) {
		ts.Equal("/demo/ik-genimg-prompt-red sports car/ferrari.jpg", r.URL.Path)
		ts.Equal(BasicAuth("private_key"), r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}
	img, err := ts.client.Generate(context.Background(), "red sports car", "ferrari")
	ts.Require().NoError(err)
	ts.Equal("ferrari.jpg", img.Name)
	ts.Equal("data:image/jpeg;base64,anBlZy1ieXRlcw==", img.Base64Data)
}

func (ts *ClientTestSuite) TestGenerateFailure() {
	calls := 0
	ts.handler = func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}
	_, err := ts.client.Generate(context.Background(), "red sports car", "ferrari")
	var se *ServerError
	ts.Require().ErrorAs(err, &se)
	ts.Equal(http.StatusInternalServerError, se.StatusCode)
	ts.Equal(1, calls, "failures may not be retried")
}

func (ts *ClientTestSuite) TestUpload() {
	ts.handler = func(w http.ResponseWriter, r *http.Request) {
		ts.Equal(http.MethodPost, r.Method)
		ts.Equal(BasicAuth("private_key"), r.Header.Get("Authorization"))
		ts.Require().NoError(r.ParseMultipartForm(1 << 20))
		ts.Equal("car.jpg", r.FormValue("fileName"))
		ts.Equal("cars", r.FormValue("folder"))
		f, _, err := r.FormFile("file")
		ts.Require().NoError(err)
		data, err := io.ReadAll(f)
		ts.Require().NoError(err)
		ts.Equal("image-data", string(data))
		w.Write([]byte(`{"fileId":"f1","filePath":"/cars/car_x1.jpg"}`))
	}
	var last, total int64
	path, err := ts.client.Upload(
		context.Background(), []byte("image-data"), "car.jpg",
		func(sent, t int64) {
			ts.GreaterOrEqual(sent, last, "progress may not go back")
			last, total = sent, t
		},
	)
	ts.Require().NoError(err)
	ts.Equal("/cars/car_x1.jpg", path)
	ts.Positive(total)
	ts.Equal(total, last, "the whole body must be reported")
}

func (ts *ClientTestSuite) TestUploadInvalidRequest() {
	ts.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"file is too large"}`))
	}
	_, err := ts.client.Upload(context.Background(), []byte("x"), "a.jpg", nil)
	var ire *InvalidRequestError
	ts.Require().ErrorAs(err, &ire)
	ts.Equal("file is too large", ire.Message)
}

func (ts *ClientTestSuite) TestUploadAbort() {
	released := make(chan struct{})
	ts.handler = func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(released)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := ts.client.Upload(ctx, []byte("x"), "a.jpg", nil)
	var ae *AbortError
	ts.Require().ErrorAs(err, &ae)
	ts.True(errors.Is(err, context.DeadlineExceeded))
	<-released
}

func TestUploadNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	c, err := New(Config{URLEndpoint: u, UploadURL: u, PrivateKey: "k"})
	require.NoError(t, err)
	_, err = c.Upload(context.Background(), []byte("x"), "a.jpg", nil)
	var ne *NetworkError
	assert.ErrorAs(t, err, &ne)
}

func TestBasicAuth(t *testing.T) {
	// base64("private_key:")
	assert.Equal(t, "Basic cHJpdmF0ZV9rZXk6", BasicAuth("private_key"))
}

func TestProcess(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2048, 1024))
	for x := 0; x < 2048; x++ {
		src.Set(x, x/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := NewProcessor().Process(buf.Bytes())
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())

	small := image.NewRGBA(image.Rect(0, 0, 10, 20))
	buf.Reset()
	require.NoError(t, jpeg.Encode(&buf, small, nil))
	out, err = NewProcessor().Process(buf.Bytes())
	require.NoError(t, err)
	img, err = jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 20), img.Bounds())

	_, err = NewProcessor().Process([]byte(strings.Repeat("text ", 20)))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

// pngHeader returns a PNG signature and IHDR chunk which declare a
// w by h RGBA image, with no pixel data.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8], ihdr[9] = 8, 6 // 8-bit depth, truecolor with alpha
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestProcessRejectsHugeDeclaredSize(t *testing.T) {
	data := pngHeader(60000, 60000)
	require.Less(t, len(data), 64)
	_, err := NewProcessor().Process(data)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.Contains(t, err.Error(), "60000x60000")

	p := NewProcessor()
	p.MaxPixels = 2048*1024 - 1
	src := image.NewRGBA(image.Rect(0, 0, 2048, 1024))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	_, err = p.Process(buf.Bytes())
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	p.MaxPixels++
	_, err = p.Process(buf.Bytes())
	assert.NoError(t, err, "images at the limit must be accepted")
}
