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

//nolint:testpackage,revive // test package in suites is standard for these tests
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/posts-apitest/test/api"
)

var _ = Describe("Posts", func() {
	Context("When I search a post by id", func() {
		DescribeTable("I get the correct post",
			func(expected *api.Post) {
				resp, err := client.GetPostByID(ctx, expected.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				// The server answers a search with a list, not a single object.
				posts, err := resp.Posts()
				Expect(err).NotTo(HaveOccurred())
				Expect(posts).To(HaveLen(1))

				actual := api.FindPost(posts, expected.ID)
				Expect(actual).NotTo(BeNil(), "post %d should be in the result", expected.ID)
				Expect(api.MustMarshal(actual)).To(MatchJSON(api.MustMarshal(expected)))
			},
			Entry("post 1", api.NewPost().WithID(1).Build()),
			Entry("post 2", api.NewPost().WithID(2).WithTitle("learn json").WithAuthor("Chapel").Build()),
		)
	})

	Context("When I add a new post", func() {
		DescribeTable("the new post is successfully added",
			func(builder *api.PostBuilder) {
				post := builder.WithFreshID().Build()

				resp := api.AddPostWithCleanup(ctx, client, post)
				Expect(resp.StatusCode).To(Equal(http.StatusCreated), "body: %s", string(resp.Body))

				api.ExpectPostsEqual(resp.Body, post)

				GinkgoWriter.Printf("Created post with ID: %d\n", post.ID)
			},
			Entry("json-server", api.NewPost()),
			Entry("learn json", api.NewPost().WithTitle("learn json").WithAuthor("Chapel")),
		)
	})

	Context("When I add a duplicate post", func() {
		DescribeTable("I get an error message",
			func(post *api.Post) {
				resp, err := client.AddPost(ctx, post)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(resp.Body)).To(ContainSubstring(api.DuplicateIDError))
			},
			Entry("post 28", api.NewPost().WithID(28).Build()),
			Entry("post 29", api.NewPost().WithID(29).WithTitle("learn json").WithAuthor("Chapel").Build()),
		)
	})

	Context("When I update a post", func() {
		DescribeTable("the post is successfully updated",
			func(post *api.Post) {
				resp, err := client.UpdatePost(ctx, post)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK), "body: %s", string(resp.Body))

				api.ExpectPostsEqual(resp.Body, post)
			},
			Entry("post 28", api.NewPost().WithID(28).WithAuthor("Kartik x").Build()),
			Entry("post 29", api.NewPost().WithID(29).WithTitle("learn json").WithAuthor("Chapel x").Build()),
		)
	})
})
