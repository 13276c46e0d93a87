/*
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

// Package fixture reads externalized test inputs, such as the API base URL,
// from flat JSON documents kept in a TestData directory.
package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDirectory is the directory, relative to the working directory,
// that fixture files are read from.
const DefaultDirectory = "TestData"

var (
	// ErrFileAccess is raised when a fixture file cannot be read.
	ErrFileAccess = errors.New("fixture file access failed")

	// ErrKeyNotFound is raised when the requested key is absent from a fixture.
	ErrKeyNotFound = errors.New("fixture key not found")

	// ErrParse is raised when a fixture is not a flat JSON object of strings.
	ErrParse = errors.New("fixture parse failed")
)

// Reader looks up values in fixture files under a directory.
// Files are read on every call, nothing is cached.
type Reader struct {
	dir string
}

// NewReader returns a reader rooted at dir.
func NewReader(dir string) *Reader {
	return &Reader{
		dir: dir,
	}
}

// Default returns a reader rooted at TestData under the current working directory.
func Default() (*Reader, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: resolving working directory: %w", ErrFileAccess, err)
	}

	return NewReader(filepath.Join(cwd, DefaultDirectory)), nil
}

// Dir returns the directory fixtures are read from.
func (r *Reader) Dir() string {
	return r.dir
}

// GetValue reads fileName and returns the string stored at key.
func (r *Reader) GetValue(fileName, key string) (string, error) {
	values, err := r.load(fileName)
	if err != nil {
		return "", err
	}

	value, ok := values[key]
	if !ok {
		return "", fmt.Errorf("%w: key '%s' in %s", ErrKeyNotFound, key, fileName)
	}

	return value, nil
}

func (r *Reader) load(fileName string) (map[string]string, error) {
	path := filepath.Join(r.dir, fileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	// A literal null unmarshals cleanly but carries no object.
	if values == nil {
		return nil, fmt.Errorf("%w: %s: not a JSON object", ErrParse, path)
	}

	return values, nil
}

// GetValue reads fileName from TestData under the working directory and
// returns the string stored at key.
func GetValue(fileName, key string) (string, error) {
	reader, err := Default()
	if err != nil {
		return "", err
	}

	return reader.GetValue(fileName, key)
}
