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

package api_test

import (
	"errors"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive
	"go.uber.org/mock/gomock"

	"github.com/unikorn-cloud/posts-apitest/pkg/fixture"
	"github.com/unikorn-cloud/posts-apitest/test/api"
	"github.com/unikorn-cloud/posts-apitest/test/api/mock"
)

// setEnv sets an environment variable for the duration of the spec.
func setEnv(key, value string) {
	old, ok := os.LookupEnv(key)

	Expect(os.Setenv(key, value)).To(Succeed())

	DeferCleanup(func() {
		if ok {
			Expect(os.Setenv(key, old)).To(Succeed())
			return
		}

		Expect(os.Unsetenv(key)).To(Succeed())
	})
}

var _ = Describe("TestConfig", Serial, func() {
	Context("When nothing is configured", func() {
		BeforeEach(func() {
			for _, key := range []string{"API_BASE_URL", "LOCAL_MOCK_SERVER", "REQUEST_TIMEOUT", "REQUEST_RETRIES", "TEST_TIMEOUT", "API_BASIC_AUTH_USER", "API_BASIC_AUTH_PASSWORD"} {
				setEnv(key, "")
			}
		})

		It("uses the defaults", func() {
			config, err := api.LoadTestConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(config.BaseURL).To(BeEmpty())
			Expect(config.FixtureFile).To(Equal("config.json"))
			Expect(config.FixtureKey).To(Equal("baseUrl"))
			Expect(config.LocalMockServer).To(BeTrue())
			Expect(config.RequestTimeout).To(Equal(30 * time.Second))
			Expect(config.RequestRetries).To(Equal(2))
			Expect(config.TestTimeout).To(Equal(5 * time.Minute))
		})
	})

	Context("When the environment is set", func() {
		It("overrides the defaults", func() {
			setEnv("API_BASE_URL", "http://posts.example.com")
			setEnv("LOCAL_MOCK_SERVER", "false")
			setEnv("REQUEST_TIMEOUT", "5s")
			setEnv("REQUEST_RETRIES", "0")
			setEnv("TEST_TIMEOUT", "90s")

			config, err := api.LoadTestConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(config.BaseURL).To(Equal("http://posts.example.com"))
			Expect(config.LocalMockServer).To(BeFalse())
			Expect(config.RequestTimeout).To(Equal(5 * time.Second))
			Expect(config.RequestRetries).To(BeZero())
			Expect(config.TestTimeout).To(Equal(90 * time.Second))
		})

		It("ignores malformed values", func() {
			setEnv("REQUEST_TIMEOUT", "soon")
			setEnv("REQUEST_RETRIES", "-1")

			config, err := api.LoadTestConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(config.RequestTimeout).To(Equal(30 * time.Second))
			Expect(config.RequestRetries).To(Equal(2))
		})

		It("rejects half configured basic authentication", func() {
			setEnv("API_BASIC_AUTH_USER", "username")
			setEnv("API_BASIC_AUTH_PASSWORD", "")

			_, err := api.LoadTestConfig()
			Expect(err).To(MatchError(api.ErrIncompleteBasicAuth))
		})
	})
})

var _ = Describe("ResolveBaseURL", func() {
	var (
		ctrl   *gomock.Controller
		source *mock.MockFixtureSource
		config *api.TestConfig
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		source = mock.NewMockFixtureSource(ctrl)
		config = &api.TestConfig{
			FixtureFile: "config.json",
			FixtureKey:  "baseUrl",
		}
	})

	It("prefers the environment over the fixture", func() {
		config.BaseURL = "http://from-env"

		baseURL, err := api.ResolveBaseURL(config, source)
		Expect(err).NotTo(HaveOccurred())
		Expect(baseURL).To(Equal("http://from-env"))
	})

	It("reads the fixture file", func() {
		source.EXPECT().GetValue("config.json", "baseUrl").Return("http://localhost:3000", nil)

		baseURL, err := api.ResolveBaseURL(config, source)
		Expect(err).NotTo(HaveOccurred())
		Expect(baseURL).To(Equal("http://localhost:3000"))
	})

	It("propagates fixture errors", func() {
		source.EXPECT().GetValue("config.json", "baseUrl").Return("", fixture.ErrKeyNotFound)

		_, err := api.ResolveBaseURL(config, source)
		Expect(errors.Is(err, fixture.ErrKeyNotFound)).To(BeTrue())
	})

	It("rejects an empty value", func() {
		source.EXPECT().GetValue("config.json", "baseUrl").Return("", nil)

		_, err := api.ResolveBaseURL(config, source)
		Expect(err).To(MatchError(api.ErrNoBaseURL))
	})

	It("works with the real fixture reader", func() {
		baseURL, err := api.ResolveBaseURL(config, fixture.NewReader("suites/TestData"))
		Expect(err).NotTo(HaveOccurred())
		Expect(baseURL).To(Equal("http://localhost:3000"))
	})
})
