// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/starsigns/domainurlvalidator/config"
)

func writeConfig(yaml string) string {
	path := filepath.Join(GinkgoT().TempDir(), "domvet.yaml")
	Expect(os.WriteFile(path, []byte(yaml), 0o644)).To(Succeed())
	return path
}

var _ = Describe("configuration", func() {

	It("has valid defaults", func() {
		cfg := config.Default()
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Workers).To(Equal(50))
		Expect(cfg.Timeout()).To(Equal(3 * time.Second))
		Expect(cfg.Grace()).To(Equal(2 * time.Second))
	})

	It("merges a file over the defaults", func() {
		cfg, err := config.Load(writeConfig(`
workers: 8
nameservers: ["127.0.0.1:5353"]
log:
  level: debug
`))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Workers).To(Equal(8))
		Expect(cfg.Nameservers).To(ConsistOf("127.0.0.1:5353"))
		Expect(cfg.Log.Level).To(Equal("debug"))
		Expect(cfg.TimeoutSecs).To(Equal(config.DefaultTimeoutSecs), "untouched defaults survive")
	})

	DescribeTable("rejects out-of-range values",
		func(yaml string) {
			_, err := config.Load(writeConfig(yaml))
			Expect(err).To(HaveOccurred())
		},
		Entry("zero workers", "workers: 0"),
		Entry("too many workers", "workers: 201"),
		Entry("zero timeout", "timeout_secs: 0"),
		Entry("a bare nameserver without port", `nameservers: ["8.8.8.8"]`),
		Entry("an unknown log level", "log:\n  level: chatty"),
	)

	It("reports a missing configuration file", func() {
		_, err := config.Load(filepath.Join(GinkgoT().TempDir(), "nope.yaml"))
		Expect(err).To(HaveOccurred())
	})

})
