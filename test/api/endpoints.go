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
	"net/url"
	"strconv"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Resource addresses an arbitrary top level resource. The name is escaped as
// a single path segment so hostile input reaches the server verbatim.
func (e *Endpoints) Resource(name string) string {
	return "/" + url.PathEscape(name)
}

// Posts endpoints.
func (e *Endpoints) Posts() string {
	return "/Posts"
}

func (e *Endpoints) Post(id int) string {
	return "/Posts/" + strconv.Itoa(id)
}
