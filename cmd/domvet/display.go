// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/starsigns/domainurlvalidator/types"
	"github.com/starsigns/domainurlvalidator/vet"
)

// recentOutcomes is how many of the latest per-domain outcomes the live
// display shows underneath the progress line.
const recentOutcomes = 5

// renderer renders the live terminal display from the validation event
// stream: a progress line plus a short tail of recent outcomes.
type renderer struct {
	w       io.Writer
	spinner *spinner

	mu        sync.Mutex
	total     int
	processed int
	rate      float64
	valid     int
	invalid   int
	recent    []types.Outcome
}

// newRenderer returns a renderer writing to the specified io.Writer for a run
// over the given number of domains.
func newRenderer(w io.Writer, total int) *renderer {
	sp := newSpinner()
	sp.Start(spinnerInterval)
	return &renderer{
		w:       w,
		total:   total,
		spinner: sp,
	}
}

// Stop the renderer's background spinner ticker.
func (r *renderer) Stop() {
	r.spinner.Stop()
}

// Outcome folds one per-domain outcome into the display state.
func (r *renderer) Outcome(outcome types.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if outcome.IsValid() {
		r.valid++
	} else {
		r.invalid++
	}
	r.recent = append(r.recent, outcome)
	if len(r.recent) > recentOutcomes {
		r.recent = r.recent[1:]
	}
}

// Progress folds an aggregate progress notice into the display state.
func (r *renderer) Progress(progress vet.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed = progress.Processed
	r.rate = progress.Rate
}

// Render writes the current display state.
func (r *renderer) Render() {
	r.mu.Lock()
	defer r.mu.Unlock()
	percentage := 0.0
	if r.total > 0 {
		percentage = float64(r.processed) / float64(r.total) * 100
	}
	fmt.Fprintf(r.w, "%svalidating %d domains: %d/%d (%.1f%%)  %s %d  %s %d  %.1f domains/sec\n",
		r.spinner.Spinner(),
		r.total, r.processed, r.total, percentage,
		validStyle.Styled("valid"), r.valid,
		invalidStyle.Styled("invalid"), r.invalid,
		r.rate)
	for _, outcome := range r.recent {
		if outcome.IsValid() {
			fmt.Fprintf(r.w, "   %s %s\n", validStyle.Styled("✔"), outcome.Domain)
			continue
		}
		fmt.Fprintf(r.w, "   %s %s (%s)\n",
			invalidStyle.Styled("×"), outcome.Domain, outcome.Err)
	}
}

// Summarize writes the final run summary. Unlike Render it goes to the real
// stdout, so it survives after the live area is gone.
func (r *renderer) Summarize(w io.Writer, summary vet.Summary) {
	switch {
	case summary.Phase == vet.ForceStopped:
		fmt.Fprintln(w, headingStyle.Styled("validation force-stopped, partial results:"))
	case summary.Stopped:
		fmt.Fprintln(w, headingStyle.Styled("validation stopped, partial results:"))
	default:
		fmt.Fprintln(w, headingStyle.Styled("validation complete:"))
	}
	fmt.Fprintf(w, "   domains   %d\n", summary.Total)
	fmt.Fprintf(w, "   processed %d\n", summary.Processed)
	fmt.Fprintf(w, "   %s     %d\n", validStyle.Styled("valid"), summary.ValidCount)
	fmt.Fprintf(w, "   %s   %d\n", invalidStyle.Styled("invalid"), summary.InvalidCount)
	fmt.Fprintf(w, "   elapsed   %.1fs\n", summary.Elapsed.Seconds())
	fmt.Fprintf(w, "   rate      %.1f domains/sec\n", summary.Rate)
}
