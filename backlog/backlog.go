// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package backlog

import "sync"

// Backlog holds the ordered collection of canonical probe targets not yet
// handed out to a worker. Hand-out and cancellation drain are mutually
// exclusive, so a target can never be delivered concurrently with a drain and
// every target is delivered at most once.
type Backlog struct {
	mu      sync.Mutex
	targets []string
}

// New returns a Backlog loaded with the given probe targets. The targets are
// copied, so the caller's slice stays untouched.
func New(targets []string) *Backlog {
	b := &Backlog{
		targets: make([]string, len(targets)),
	}
	copy(b.targets, targets)
	return b
}

// TryTake hands out the next undelivered target. It never blocks; ok is false
// once the backlog is empty, which is a worker's cue to terminate its loop.
func (b *Backlog) TryTake() (target string, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.targets) == 0 {
		return "", false
	}
	target = b.targets[0]
	b.targets = b.targets[1:]
	return target, true
}

// Drain atomically discards all remaining undelivered targets and returns how
// many were thrown away.
func (b *Backlog) Drain() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	discarded := len(b.targets)
	b.targets = nil
	return discarded
}

// Len returns the number of targets still awaiting delivery.
func (b *Backlog) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.targets)
}
