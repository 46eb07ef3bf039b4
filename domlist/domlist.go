// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package domlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Subset selects which result partition to export.
type Subset int

// The exportable result subsets.
const (
	ValidOnly   Subset = iota // only domains that resolved.
	InvalidOnly               // only domains that failed validation.
	All                       // valid followed by invalid.
)

// String returns the clear-text representation of a Subset value.
func (s Subset) String() string {
	switch s {
	case ValidOnly:
		return "valid"
	case InvalidOnly:
		return "invalid"
	case All:
		return "all"
	}
	return fmt.Sprintf("Subset(%d)", s)
}

// Load reads a domain list file: one candidate domain per line, surrounding
// whitespace trimmed, blank lines skipped. The lines are otherwise passed on
// verbatim; canonicalization is the normalizer's business.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load domain list: %w", err)
	}
	defer f.Close()
	domains := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			domains = append(domains, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot load domain list %q: %w", path, err)
	}
	return domains, nil
}

// Export writes domains to the given writer, one per line.
func Export(w io.Writer, domains []string) error {
	bw := bufio.NewWriter(w)
	for _, domain := range domains {
		if _, err := fmt.Fprintln(bw, domain); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportFile writes domains to the named file, one per line, replacing any
// previous content.
func ExportFile(path string, domains []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot export domains: %w", err)
	}
	if err := Export(f, domains); err != nil {
		f.Close()
		return fmt.Errorf("cannot export domains to %q: %w", path, err)
	}
	return f.Close()
}
