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

package api

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/onsi/ginkgo/v2"
)

// Post is the resource under test.
type Post struct {
	ID     int    `json:"id,omitempty"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

const (
	// reservedIDs is the id range kept for seeded fixtures (1, 2, 28, 29...).
	reservedIDs = 1000

	// processIDSpace is the number of ids each parallel process may hand out
	// before running into its neighbour.
	processIDSpace = 1 << 20
)

//nolint:gochecknoglobals
var (
	// idBase is resolved lazily, the parallel process index is only known
	// once Ginkgo has parsed its flags.
	idBase     = sync.OnceValue(newIDBase)
	idSequence atomic.Int64
)

// newIDBase offsets each run by wall clock so repeated runs against a
// persistent server are unlikely to collide, and each parallel process by
// its index so they never do.
func newIDBase() int64 {
	// Keeps ids inside a signed 32 bit range for servers that care.
	const window = (1<<31 - 1 - reservedIDs) / processIDSpace / 32

	run := time.Now().Unix() % window
	process := int64(ginkgo.GinkgoParallelProcess() % 32)

	return reservedIDs + (run*32+process)*processIDSpace
}

// NextPostID returns an id that is unique within this test run and never
// overlaps the seeded fixture ids.
func NextPostID() int {
	return int(idBase() + idSequence.Add(1))
}

// PostBuilder builds post payloads for testing.
type PostBuilder struct {
	post Post
}

// NewPost creates a new post builder with the default fixture content.
func NewPost() *PostBuilder {
	return &PostBuilder{
		post: Post{
			Title:  "json-server",
			Author: "Kartik",
		},
	}
}

// WithID sets an explicit id.
func (b *PostBuilder) WithID(id int) *PostBuilder {
	b.post.ID = id
	return b
}

// WithFreshID allocates an unused id from the run sequence.
func (b *PostBuilder) WithFreshID() *PostBuilder {
	b.post.ID = NextPostID()
	return b
}

// WithTitle sets the title.
func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.post.Title = title
	return b
}

// WithAuthor sets the author.
func (b *PostBuilder) WithAuthor(author string) *PostBuilder {
	b.post.Author = author
	return b
}

// Build returns the completed post.
func (b *PostBuilder) Build() *Post {
	post := b.post
	return &post
}
