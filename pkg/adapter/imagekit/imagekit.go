// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package imagekit is a client of the ImageKit image service. It
// generates images from text prompts using the ImageKit URL endpoint
// transformations and uploads images using the ImageKit upload API.
// It also provides the Processor which prepares the images before
// their upload.
package imagekit

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/carweb/pkg/core/model"
)

// DefaultUploadURL is the ImageKit upload API endpoint.
const DefaultUploadURL = "https://upload.imagekit.io/api/v1/files/upload"

// Config contains the ImageKit client settings.
type Config struct {
	URLEndpoint string        // e.g., https://ik.imagekit.io/<id>
	UploadURL   string        // DefaultUploadURL if empty
	Folder      string        // upload folder, e.g., cars
	PrivateKey  string        // API private key
	Timeout     time.Duration // per request timeout, zero for none
}

// Client calls the ImageKit service.
type Client struct {
	cfg  Config
	auth string
	http *http.Client
}

// New instantiates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.URLEndpoint == "" {
		return nil, errors.New("imagekit url endpoint is empty")
	}
	if cfg.PrivateKey == "" {
		return nil, errors.New("imagekit private key is empty")
	}
	cfg.URLEndpoint = strings.TrimSuffix(cfg.URLEndpoint, "/")
	if cfg.UploadURL == "" {
		cfg.UploadURL = DefaultUploadURL
	}
	return &Client{
		cfg:  cfg,
		auth: BasicAuth(cfg.PrivateKey),
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// BasicAuth returns the Authorization header value for privateKey.
// ImageKit takes the private key as the user name with no password.
func BasicAuth(privateKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString(
		[]byte(privateKey+":"),
	)
}

// GenerateURL returns the URL which generates name.jpg image from the
// description prompt.
func (c *Client) GenerateURL(description, name string) string {
	return fmt.Sprintf(
		"%s/ik-genimg-prompt-%s/%s.jpg",
		c.cfg.URLEndpoint, url.PathEscape(description), url.PathEscape(name),
	)
}

// Generate fetches the image which is generated from description and
// returns it as a JPEG data URL. Failed requests are not retried.
func (c *Client) Generate(
	ctx context.Context, description, name string,
) (*model.GeneratedImage, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.GenerateURL(description, name), nil,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.auth)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(ctx, err)
	}
	if err := statusError(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return &model.GeneratedImage{
		Base64Data: "data:image/jpeg;base64," +
			base64.StdEncoding.EncodeToString(body),
		Name: name + ".jpg",
	}, nil
}

type uploadResponse struct {
	FileID   string `json:"fileId"`
	Name     string `json:"name"`
	FilePath string `json:"filePath"`
	URL      string `json:"url"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Upload posts data as fileName into the configured folder and returns
// the stored file path. The onProgress function (if not nil) is called
// as the request body is sent. Cancelling ctx aborts the upload with
// an AbortError. Other failures are reported as NetworkError,
// InvalidRequestError, or ServerError.
func (c *Client) Upload(
	ctx context.Context, data []byte, fileName string,
	onProgress model.ProgressFunc,
) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("creating file part: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("writing file part: %w", err)
	}
	fields := [][2]string{
		{"fileName", fileName},
		{"folder", c.cfg.Folder},
		{"useUniqueFileName", "true"},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return "", fmt.Errorf("writing %s field: %w", f[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}
	total := int64(buf.Len())
	var body io.Reader = &buf
	if onProgress != nil {
		body = &progressReader{r: &buf, total: total, onProgress: onProgress}
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.cfg.UploadURL, body,
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", c.auth)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", classify(ctx, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(ctx, err)
	}
	if err := statusError(resp.StatusCode, respBody); err != nil {
		return "", err
	}
	var ur uploadResponse
	if err := json.Unmarshal(respBody, &ur); err != nil {
		return "", &ServerError{
			StatusCode: resp.StatusCode,
			Message:    "malformed response: " + err.Error(),
		}
	}
	if ur.FilePath == "" {
		return "", &ServerError{
			StatusCode: resp.StatusCode,
			Message:    "response has no file path",
		}
	}
	return ur.FilePath, nil
}

// classify converts a transport error into an AbortError (if ctx was
// cancelled) or a NetworkError.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return &AbortError{Err: ctxErr}
	}
	return &NetworkError{Err: err}
}

// statusError returns nil for 2xx status codes, an InvalidRequestError
// for 4xx status codes, and a ServerError otherwise.
func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := http.StatusText(status)
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Message != "" {
		msg = er.Message
	}
	if status >= 400 && status < 500 {
		return &InvalidRequestError{StatusCode: status, Message: msg}
	}
	return &ServerError{StatusCode: status, Message: msg}
}

type progressReader struct {
	r          io.Reader
	sent       atomic.Int64
	total      int64
	onProgress model.ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.onProgress(pr.sent.Add(int64(n)), pr.total)
	}
	return n, err
}
