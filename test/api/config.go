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

package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrIncompleteBasicAuth = errors.New("API_BASIC_AUTH_USER and API_BASIC_AUTH_PASSWORD must be set together")

type TestConfig struct {
	// BaseURL overrides the fixture file when set.
	BaseURL           string
	FixtureFile       string
	FixtureKey        string
	LocalMockServer   bool
	AuthToken         string
	BasicAuthUser     string
	BasicAuthPassword string
	RequestTimeout    time.Duration
	RequestRetries    int
	RetryWaitTime     time.Duration
	TestTimeout       time.Duration
	DebugLogging      bool
	LogRequests       bool
	LogResponses      bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Nothing is strictly required, the base URL is resolved later from either
// the environment, the fixture file or a local mock server.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	config := &TestConfig{
		BaseURL:           os.Getenv("API_BASE_URL"),
		FixtureFile:       getStringWithDefault("FIXTURE_FILE", "config.json"),
		FixtureKey:        getStringWithDefault("FIXTURE_BASE_URL_KEY", "baseUrl"),
		LocalMockServer:   getBoolWithDefault("LOCAL_MOCK_SERVER", true),
		AuthToken:         os.Getenv("API_AUTH_TOKEN"),
		BasicAuthUser:     os.Getenv("API_BASIC_AUTH_USER"),
		BasicAuthPassword: os.Getenv("API_BASIC_AUTH_PASSWORD"),
		RequestTimeout:    getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		RequestRetries:    getIntWithDefault("REQUEST_RETRIES", 2),
		RetryWaitTime:     getDurationWithDefault("REQUEST_RETRY_WAIT", 200*time.Millisecond),
		TestTimeout:       getDurationWithDefault("TEST_TIMEOUT", 5*time.Minute),
		DebugLogging:      getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:       getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:      getBoolWithDefault("LOG_RESPONSES", false),
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func getStringWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func getIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil || intValue < 0 {
		return defaultValue
	}

	return intValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../.env",    // From test/api directory
		"../../../.env", // From test/api/suites directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Existing environment variables win over the file.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

func validate(config *TestConfig) error {
	if (config.BasicAuthUser == "") != (config.BasicAuthPassword == "") {
		return ErrIncompleteBasicAuth
	}

	return nil
}
