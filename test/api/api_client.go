/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
)

// Response is the raw outcome of a single request.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Post decodes the body as a single post.
func (r *Response) Post() (*Post, error) {
	var post Post
	if err := json.Unmarshal(r.Body, &post); err != nil {
		return nil, fmt.Errorf("unmarshaling post response: %w", err)
	}

	return &post, nil
}

// Posts decodes the body as a list of posts.
func (r *Response) Posts() ([]Post, error) {
	var posts []Post
	if err := json.Unmarshal(r.Body, &posts); err != nil {
		return nil, fmt.Errorf("unmarshaling posts response: %w", err)
	}

	return posts, nil
}

type APIClient struct {
	baseURL   string
	client    *resty.Client
	config    *TestConfig
	endpoints *Endpoints
}

// NewAPIClient creates a client bound to baseURL. Every scenario builds its
// own so specs can run in parallel.
func NewAPIClient(config *TestConfig, baseURL string) *APIClient {
	baseURL = strings.TrimSuffix(baseURL, "/")

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(config.RequestTimeout).
		SetRetryCount(config.RequestRetries).
		SetRetryWaitTime(config.RetryWaitTime).
		AddRetryCondition(retryableGet).
		SetDebug(config.DebugLogging).
		SetLogger(ginkgoLogger{})

	// Credentials are only ever applied when explicitly configured.
	if config.AuthToken != "" {
		client.SetAuthToken(config.AuthToken)
	}

	if config.BasicAuthUser != "" {
		client.SetBasicAuth(config.BasicAuthUser, config.BasicAuthPassword)
	}

	return &APIClient{
		baseURL:   baseURL,
		client:    client,
		config:    config,
		endpoints: NewEndpoints(),
	}
}

// BaseURL returns the URL requests are issued against.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// retryableGet retries server side failures of reads. Writes are never
// retried as the first attempt may already have changed server state.
func retryableGet(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}

	return err != nil || r.StatusCode() >= http.StatusInternalServerError
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// A fresh one per request means any failure can be found in the server logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// doRequest issues exactly one logical request, status codes are returned
// to the caller untouched as the scenarios assert on them.
func (c *APIClient) doRequest(ctx context.Context, method, path string, query map[string]string, body any) (*Response, error) {
	traceParent := createTraceParent()

	req := c.client.R().
		SetContext(ctx).
		SetHeader("Traceparent", traceParent).
		SetHeader("Tracestate", "test-automation=ginkgo").
		SetHeader("X-Request-Id", uuid.NewString()).
		SetHeader("Accept", "application/json").
		SetQueryParams(query)

	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	if c.config.LogRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", method, path, resp.StatusCode(), duration, traceParent)
	}

	if c.config.LogResponses && len(resp.Body()) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", method, path, string(resp.Body()))
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Header:     resp.Header(),
	}, nil
}

// GetResource issues a GET for an arbitrary top level resource.
func (c *APIClient) GetResource(ctx context.Context, resourcePath string) (*Response, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.endpoints.Resource(resourcePath), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("getting resource '%s': %w", resourcePath, err)
	}

	return resp, nil
}

// GetPostByID searches posts by id. The server answers with a list,
// callers pick the post out themselves.
func (c *APIClient) GetPostByID(ctx context.Context, id int) (*Response, error) {
	query := map[string]string{
		"id": strconv.Itoa(id),
	}

	resp, err := c.doRequest(ctx, http.MethodGet, c.endpoints.Posts(), query, nil)
	if err != nil {
		return nil, fmt.Errorf("getting post %d: %w", id, err)
	}

	return resp, nil
}

// AddPost creates a post.
func (c *APIClient) AddPost(ctx context.Context, post *Post) (*Response, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, c.endpoints.Posts(), nil, post)
	if err != nil {
		return nil, fmt.Errorf("adding post: %w", err)
	}

	return resp, nil
}

// UpdatePost patches the post identified by post.ID.
func (c *APIClient) UpdatePost(ctx context.Context, post *Post) (*Response, error) {
	resp, err := c.doRequest(ctx, http.MethodPatch, c.endpoints.Post(post.ID), nil, post)
	if err != nil {
		return nil, fmt.Errorf("updating post %d: %w", post.ID, err)
	}

	return resp, nil
}

// DeletePost removes a post, used to clean up after scenarios that create them.
func (c *APIClient) DeletePost(ctx context.Context, id int) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, c.endpoints.Post(id), nil, nil)
	if err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("deleting post %d: unexpected status code: %d, body: %s", id, resp.StatusCode, string(resp.Body))
	}

	return nil
}

// ginkgoLogger routes resty's own diagnostics to the spec output.
type ginkgoLogger struct{}

func (ginkgoLogger) Errorf(format string, v ...any) {
	ginkgo.GinkgoWriter.Printf("ERROR "+format+"\n", v...)
}

func (ginkgoLogger) Warnf(format string, v ...any) {
	ginkgo.GinkgoWriter.Printf("WARN "+format+"\n", v...)
}

func (ginkgoLogger) Debugf(format string, v ...any) {
	ginkgo.GinkgoWriter.Printf("DEBUG "+format+"\n", v...)
}
