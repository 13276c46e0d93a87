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
)

var _ = Describe("Resource Paths", func() {
	Context("When I call the correct resource path", func() {
		DescribeTable("the response is OK",
			func(resourcePath string, expectedStatus int) {
				resp, err := client.GetResource(ctx, resourcePath)

				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(expectedStatus), "unexpected status for '%s', body: %s", resourcePath, string(resp.Body))
			},
			Entry("posts", "posts", http.StatusOK),
			Entry("comments", "comments", http.StatusOK),
			Entry("profile", "profile", http.StatusOK),
		)
	})

	Context("When I call an incorrect resource path", func() {
		DescribeTable("the response is not found",
			func(resourcePath string, expectedStatus int) {
				resp, err := client.GetResource(ctx, resourcePath)

				// Hostile input is just another unknown path, never an error.
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(expectedStatus), "unexpected status for '%s', body: %s", resourcePath, string(resp.Body))
			},
			Entry("wildcard", "posts*", http.StatusNotFound),
			Entry("sql injection", "comments or 1=1", http.StatusNotFound),
			Entry("misspelled", "profiles", http.StatusNotFound),
		)
	})

	Context("When I read the same resource repeatedly", func() {
		It("returns the same status code every time", func() {
			const attempts = 5

			first, err := client.GetResource(ctx, "posts")
			Expect(err).NotTo(HaveOccurred())

			for range attempts - 1 {
				resp, err := client.GetResource(ctx, "posts")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(first.StatusCode))
			}
		})
	})
})
