// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package vet

import "fmt"

// Phase is the lifecycle state of a validation run.
type Phase int

// The lifecycle phases of a validation run.
const (
	Idle          Phase = iota // no run has been started yet.
	Running                    // workers are probing the backlog.
	StopRequested              // stop flag set, waiting for workers to wind down.
	ForceStopped               // grace period elapsed, outstanding workers abandoned.
	Completed                  // run concluded, either exhausted or stopped in time.
)

// String returns the clear-text representation of a Phase value.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case StopRequested:
		return "stop requested"
	case ForceStopped:
		return "force stopped"
	case Completed:
		return "completed"
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// Terminal returns true for the phases that conclude a run and re-enable
// starting a fresh one.
func (p Phase) Terminal() bool {
	return p == Completed || p == ForceStopped
}
