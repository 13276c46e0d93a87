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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/go-logr/logr/funcr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/posts-apitest/pkg/mockserver"
)

// DuplicateIDError is the body fragment the server answers a duplicate insert with.
const DuplicateIDError = "Error: Insert failed, duplicate id"

var ErrNoBaseURL = errors.New("no API base URL configured")

// ResolveBaseURL returns the API base URL, the environment taking precedence
// over the fixture file.
func ResolveBaseURL(config *TestConfig, source FixtureSource) (string, error) {
	if config.BaseURL != "" {
		return config.BaseURL, nil
	}

	baseURL, err := source.GetValue(config.FixtureFile, config.FixtureKey)
	if err != nil {
		return "", fmt.Errorf("reading base URL fixture: %w", err)
	}

	if baseURL == "" {
		return "", fmt.Errorf("%w: '%s' in %s is empty", ErrNoBaseURL, config.FixtureKey, config.FixtureFile)
	}

	return baseURL, nil
}

// StartLocalMockServer serves a freshly seeded mock API in process and
// returns its URL. The server is torn down when the calling container ends.
func StartLocalMockServer(config *TestConfig) string {
	logger := funcr.New(func(prefix, args string) {
		GinkgoWriter.Printf("[mock-server] %s %s\n", prefix, args)
	}, funcr.Options{
		Verbosity: verbosity(config),
	})

	handler, err := mockserver.New(&mockserver.Options{
		Validate: true,
		Logger:   logger,
	})
	Expect(err).NotTo(HaveOccurred(), "mock server should start")

	server := httptest.NewServer(handler)
	DeferCleanup(server.Close)

	GinkgoWriter.Printf("Started local mock server at %s\n", server.URL)

	return server.URL
}

func verbosity(config *TestConfig) int {
	if config.DebugLogging || config.LogRequests {
		return 1
	}

	return 0
}

// FindPost returns the post with the given id, or nil.
func FindPost(posts []Post, id int) *Post {
	for i := range posts {
		if posts[i].ID == id {
			return &posts[i]
		}
	}

	return nil
}

// AddPostWithCleanup creates a post and schedules its removal.
func AddPostWithCleanup(ctx context.Context, client *APIClient, post *Post) *Response {
	resp, err := client.AddPost(ctx, post)
	Expect(err).NotTo(HaveOccurred())

	if resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK {
		// Schedule cleanup - this runs whether the test passes or fails
		DeferCleanup(func(ctx SpecContext) {
			if deleteErr := client.DeletePost(ctx, post.ID); deleteErr != nil {
				GinkgoWriter.Printf("Warning: Failed to delete post %d: %v\n", post.ID, deleteErr)
			}
		})
	}

	return resp
}

// MustMarshal encodes v as JSON, failing the spec if it cannot.
func MustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	Expect(err).NotTo(HaveOccurred())

	return data
}

// ExpectPostsEqual asserts two posts serialize to the same JSON document.
func ExpectPostsEqual(actual []byte, expected *Post) {
	Expect(actual).To(MatchJSON(MustMarshal(expected)))
}
