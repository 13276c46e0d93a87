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

// Package api provides integration test utilities for the Posts API.
//
// # Client
//
// APIClient is a deliberately thin wrapper: each operation issues exactly one
// request and hands back the raw status code and body, because the suites
// assert on error responses (404 for unknown resources, the duplicate id
// insert failure) as often as on successful ones. It adds only what makes
// failures debuggable and runs repeatable:
//   - W3C trace context and a request id on every request
//   - Request and response logging to the Ginkgo writer
//   - An explicit request timeout, and retries for failed reads only
//   - Optional bearer or basic authentication, off unless configured
//
// # Configuration
//
// The base URL comes from API_BASE_URL, or from the "baseUrl" key of
// TestData/config.json next to the suites. With LOCAL_MOCK_SERVER=true (the
// default) the suites start an in-process mock instead, so they run without
// any external dependency.
package api
