// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Verdict indicates the validation state of a domain name, such as unchecked,
// checking, et cetera.
type Verdict int

// The validation verdicts of a domain name.
const (
	Unchecked Verdict = iota // domain neither in validation nor validated.
	Checking                 // domain in validation.
	Invalid                  // domain could not be successfully validated.
	Valid                    // domain successfully validated.
)

// String returns the clear-text representation of a Verdict value.
func (v Verdict) String() string {
	switch v {
	case Unchecked:
		return "unchecked"
	case Checking:
		return "checking"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("Verdict(%d)", v)
}

// Final returns true after a domain has been either successfully or
// unsuccessfully validated.
func (v Verdict) Final() bool {
	switch v {
	case Valid, Invalid:
		return true
	default:
		return false
	}
}

// Reason classifies why a domain was found to be invalid.
type Reason int

// The invalidity reasons; None accompanies valid outcomes.
const (
	None           Reason = iota // no failure, the domain resolved.
	DNSError                     // the resolver reported a lookup failure.
	Timeout                      // the probe did not complete within its bound.
	MalformedInput               // normalization rejected the input line.
	Cancelled                    // the probe was abandoned due to a stop request.
)

// String returns the clear-text representation of a Reason value.
func (r Reason) String() string {
	switch r {
	case None:
		return "none"
	case DNSError:
		return "dns error"
	case Timeout:
		return "timeout"
	case MalformedInput:
		return "malformed input"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("Reason(%d)", r)
}
