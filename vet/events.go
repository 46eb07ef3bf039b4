// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package vet

import (
	"time"

	"github.com/starsigns/domainurlvalidator/types"
)

// Event is implemented by all notifications a [Runner] emits on its outbound
// event channel. The concrete types are [ResultEvent], [ProgressEvent], and
// [DoneEvent]. The core has no idea what consumes them; any presentation layer
// simply drains the channel.
type Event interface {
	event()
}

// ResultEvent reports the outcome of one probed domain. Emitted once per
// counted outcome; outcomes abandoned by cancellation never appear.
type ResultEvent struct {
	Outcome types.Outcome
}

// ProgressEvent reports the aggregate progress after an outcome has been
// accounted. Rate is the processed-per-second throughput figure; it is
// refreshed on a fixed cadence rather than per outcome, so consecutive events
// may carry the same value.
type ProgressEvent struct {
	Processed int
	Total     int
	Rate      float64
}

// DoneEvent concludes a run. It is emitted exactly once per run, regardless of
// which terminal phase was reached.
type DoneEvent struct {
	Summary Summary
}

// Summary is the final accounting of a run.
type Summary struct {
	Phase        Phase         // Completed or ForceStopped
	Stopped      bool          // true if the run ended on a stop request
	Total        int           // domains submitted to the run
	Processed    int           // domains that received a counted outcome
	ValidCount   int           // size of the valid partition
	InvalidCount int           // size of the invalid partition
	Elapsed      time.Duration // wall-clock run duration
	Rate         float64       // average processed per second
}

func (ResultEvent) event()   {}
func (ProgressEvent) event() {}
func (DoneEvent) event()     {}
