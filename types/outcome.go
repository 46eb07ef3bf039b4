// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// Outcome is the result of probing a single domain name: the canonical probe
// target together with its verdict and, for invalid domains, the reason and
// the underlying diagnostic text.
//
// Outcomes are plain values so they can be passed around through channels
// without any locking concerns.
type Outcome struct {
	Domain  string  `json:"domain"`          // canonical probe target
	Verdict Verdict `json:"verdict"`         // validation verdict
	Reason  Reason  `json:"reason"`          // why invalid; None when valid
	Err     string  `json:"error,omitempty"` // diagnostic text, empty when valid
}

// ValidOutcome returns an Outcome recording that the given domain resolved.
func ValidOutcome(domain string) Outcome {
	return Outcome{Domain: domain, Verdict: Valid, Reason: None}
}

// InvalidOutcome returns an Outcome recording that the given domain failed
// validation for the specified reason.
func InvalidOutcome(domain string, reason Reason, err string) Outcome {
	return Outcome{Domain: domain, Verdict: Invalid, Reason: reason, Err: err}
}

// IsValid returns true if the outcome's verdict is Valid.
func (o Outcome) IsValid() bool { return o.Verdict == Valid }
