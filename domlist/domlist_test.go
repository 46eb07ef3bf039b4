// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package domlist

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("domain list files", func() {

	It("loads lines, trimming whitespace and skipping blanks", func() {
		path := filepath.Join(GinkgoT().TempDir(), "domains.txt")
		Expect(os.WriteFile(path, []byte(
			"example.com\n\n  example.org  \n\t\nhttp://example.net/path\n"), 0o644)).
			To(Succeed())
		domains, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(domains).To(Equal([]string{
			"example.com", "example.org", "http://example.net/path",
		}))
	})

	It("reports an unreadable list", func() {
		_, err := Load(filepath.Join(GinkgoT().TempDir(), "nope.txt"))
		Expect(err).To(HaveOccurred())
	})

	It("exports one domain per line", func() {
		var sb strings.Builder
		Expect(Export(&sb, []string{"example.com", "example.org"})).To(Succeed())
		Expect(sb.String()).To(Equal("example.com\nexample.org\n"))
	})

	It("round-trips through an export file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "valid.txt")
		Expect(ExportFile(path, []string{"example.com", "example.org"})).To(Succeed())
		domains, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(domains).To(Equal([]string{"example.com", "example.org"}))
	})

	It("names the exportable subsets", func() {
		Expect(ValidOnly.String()).To(Equal("valid"))
		Expect(InvalidOnly.String()).To(Equal("invalid"))
		Expect(All.String()).To(Equal("all"))
	})

})
