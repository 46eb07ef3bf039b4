// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package vet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/starsigns/domainurlvalidator/backlog"
	"github.com/starsigns/domainurlvalidator/normalize"
	"github.com/starsigns/domainurlvalidator/probe"
	"github.com/starsigns/domainurlvalidator/types"

	"github.com/gammazero/workerpool"
)

// MaxWorkers caps the configurable number of concurrent probe workers.
const MaxWorkers = 200

// The tunables' defaults; see WithGracePeriod and WithStatsInterval.
const (
	DefaultGracePeriod   = 2 * time.Second
	DefaultStatsInterval = time.Second

	defaultEventBuffer = 64
)

// The errors Start rejects a run with.
var (
	ErrNoInput        = errors.New("no domains to validate")
	ErrAlreadyRunning = errors.New("validation already in progress")
	ErrWorkerCount    = fmt.Errorf("worker count out of range [1..%d]", MaxWorkers)
)

// Runner orchestrates one validation run end-to-end: it normalizes the
// submitted domains, loads the backlog, spins up a bounded worker pool probing
// through the configured Prober, aggregates the outcomes into valid/invalid
// partitions, and streams [Event] notifications to the channel returned by
// [New] (kind of “validation court TV”).
//
// A Runner is reusable: once a run has reached a terminal phase, Start may be
// called again and begins with fresh counters and partitions. The event
// channel is shared across runs and is never closed by the Runner; consumers
// must keep draining it until they receive the run's [DoneEvent], as the
// Runner blocks on a full channel.
type Runner struct {
	prober  probe.Prober
	grace   time.Duration
	cadence time.Duration
	buffer  int
	events  chan Event

	mu    sync.Mutex // protects phase and the current run's aggregate
	phase Phase
	cur   *run
}

// run is the per-run mutable state; a fresh one is allocated by every Start so
// that stragglers of a force-stopped run can never bleed into a later run.
type run struct {
	total     int
	processed int
	valid     []string
	invalid   []string
	started   time.Time
	rate      float64 // throughput figure, refreshed on the stats cadence
	stopped   bool    // a stop was requested
	sealed    bool    // aggregate closed, late reports are discarded

	ctx         context.Context
	cancel      context.CancelFunc
	bl          *backlog.Backlog
	reports     chan types.Outcome
	workersDone chan struct{}
	doneOnce    sync.Once
}

// RunnerOption can be passed to New when creating new Runner objects.
type RunnerOption func(*Runner)

// WithGracePeriod sets how long a stop request waits for workers to exit
// cooperatively before the run is force-stopped.
func WithGracePeriod(grace time.Duration) RunnerOption {
	return func(r *Runner) {
		r.grace = grace
	}
}

// WithStatsInterval sets the cadence on which the throughput figure carried by
// progress events is recalculated.
func WithStatsInterval(interval time.Duration) RunnerOption {
	return func(r *Runner) {
		r.cadence = interval
	}
}

// WithEventBuffer sets the event channel's buffer size.
func WithEventBuffer(size int) RunnerOption {
	return func(r *Runner) {
		r.buffer = size
	}
}

// New returns a new Runner probing through the specified Prober, together with
// its outbound event stream.
func New(prober probe.Prober, options ...RunnerOption) (*Runner, <-chan Event) {
	r := &Runner{
		prober:  prober,
		grace:   DefaultGracePeriod,
		cadence: DefaultStatsInterval,
		buffer:  defaultEventBuffer,
		phase:   Idle,
	}
	for _, opt := range options {
		opt(r)
	}
	r.events = make(chan Event, r.buffer)
	return r, r.events
}

// Start begins a validation run over the given raw domain lines with the given
// number of concurrent workers, and returns immediately. It rejects an empty
// domain list with ErrNoInput, a worker count outside 1..MaxWorkers with
// ErrWorkerCount, and overlapping runs with ErrAlreadyRunning; in all three
// cases the Runner's phase is left untouched.
//
// Lines that normalization rejects become Invalid/MalformedInput outcomes
// without ever reaching the Prober. The worker pool size is capped at the
// number of probeable targets, so a short list never over-allocates workers.
func (r *Runner) Start(domains []string, workers int) error {
	if len(domains) == 0 {
		return ErrNoInput
	}
	if workers < 1 || workers > MaxWorkers {
		return ErrWorkerCount
	}

	r.mu.Lock()
	if r.phase == Running || r.phase == StopRequested {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}

	targets := make([]string, 0, len(domains))
	var malformed []types.Outcome
	for _, raw := range domains {
		target, ok := normalize.Normalize(raw)
		if !ok {
			malformed = append(malformed, types.InvalidOutcome(
				strings.TrimSpace(raw), types.MalformedInput,
				"not a probeable domain name"))
			continue
		}
		targets = append(targets, target)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cur := &run{
		total:       len(domains),
		valid:       []string{},
		invalid:     []string{},
		started:     time.Now(),
		ctx:         ctx,
		cancel:      cancel,
		bl:          backlog.New(targets),
		reports:     make(chan types.Outcome, workers),
		workersDone: make(chan struct{}),
	}
	r.cur = cur
	r.phase = Running
	r.mu.Unlock()

	// Malformed outcomes bypass the backlog and feed straight into the
	// collector, through the same single report channel the workers use.
	var feeders sync.WaitGroup
	feeders.Add(1)
	go func() {
		defer feeders.Done()
		for _, outcome := range malformed {
			select {
			case cur.reports <- outcome:
			case <-ctx.Done():
				return
			}
		}
	}()

	var pool *workerpool.WorkerPool
	if size := min(workers, len(targets)); size > 0 {
		pool = workerpool.New(size)
		for i := 0; i < size; i++ {
			pool.Submit(func() { r.work(cur) })
		}
	}
	go func() {
		if pool != nil {
			pool.StopWait()
		}
		feeders.Wait()
		close(cur.workersDone)
		close(cur.reports)
	}()

	go r.collect(cur)
	go r.meter(cur)
	return nil
}

// RequestStop asks the current run to wind down: the cancellation flag is
// raised, the backlog drained, and a grace timer armed. Workers all exiting
// within the grace period conclude the run as Completed (with Summary.Stopped
// set); otherwise the run is force-stopped, outstanding workers are abandoned,
// and their late outcomes discarded. RequestStop is a no-op unless the run is
// in the Running phase.
func (r *Runner) RequestStop() {
	r.mu.Lock()
	if r.phase != Running {
		r.mu.Unlock()
		return
	}
	cur := r.cur
	r.phase = StopRequested
	cur.stopped = true
	r.mu.Unlock()

	cur.cancel()
	cur.bl.Drain()

	go func() {
		graceTimer := time.NewTimer(r.grace)
		defer graceTimer.Stop()
		select {
		case <-cur.workersDone:
			// All workers bowed out in time; the collector concludes the
			// run as stopped-by-request.
		case <-graceTimer.C:
			r.finish(cur, true)
		}
	}()
}

// work is one pool worker's loop: take, probe, report, until the backlog is
// exhausted or cancellation is observed. Cancellation is checked both before
// and after probing, so an outcome whose probe was in flight when the stop
// came in is silently discarded rather than reported.
func (r *Runner) work(cur *run) {
	for {
		target, ok := cur.bl.TryTake()
		if !ok {
			return
		}
		if cur.ctx.Err() != nil {
			return
		}
		outcome := r.probeSafely(cur.ctx, target)
		if cur.ctx.Err() != nil {
			return
		}
		select {
		case cur.reports <- outcome:
		case <-cur.ctx.Done():
			return
		}
	}
}

// probeSafely guards the worker boundary: whatever a misbehaving Prober
// throws, it is converted into a generic invalid outcome instead of taking
// down the pool.
func (r *Runner) probeSafely(ctx context.Context, target string) (outcome types.Outcome) {
	defer func() {
		if p := recover(); p != nil {
			outcome = types.InvalidOutcome(target, types.DNSError,
				fmt.Sprintf("probe failure: %v", p))
		}
	}()
	return r.prober.Probe(ctx, target)
}

// collect is the single goroutine applying reported outcomes to the run's
// aggregate, so workers never touch the counters or partitions themselves. It
// concludes the run once the report channel closes behind the last worker.
func (r *Runner) collect(cur *run) {
	for outcome := range cur.reports {
		r.record(cur, outcome)
	}
	r.finish(cur, false)
}

// record accounts a single outcome exactly once and emits the per-outcome
// result and progress events. Cancelled outcomes are never counted, and a
// sealed (force-stopped) run ignores stragglers altogether.
func (r *Runner) record(cur *run, outcome types.Outcome) {
	if outcome.Reason == types.Cancelled {
		return
	}
	r.mu.Lock()
	if cur.sealed {
		r.mu.Unlock()
		return
	}
	cur.processed++
	if outcome.IsValid() {
		cur.valid = append(cur.valid, outcome.Domain)
	} else {
		cur.invalid = append(cur.invalid, outcome.Domain)
	}
	processed, total, rate := cur.processed, cur.total, cur.rate
	r.mu.Unlock()

	r.events <- ResultEvent{Outcome: outcome}
	r.events <- ProgressEvent{Processed: processed, Total: total, Rate: rate}
}

// meter refreshes the throughput figure on the stats cadence; progress events
// pick up whatever figure is current when they are emitted.
func (r *Runner) meter(cur *run) {
	ticker := time.NewTicker(r.cadence)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			if cur.sealed {
				r.mu.Unlock()
				return
			}
			if secs := time.Since(cur.started).Seconds(); secs > 0 {
				cur.rate = float64(cur.processed) / secs
			}
			r.mu.Unlock()
		case <-cur.ctx.Done():
			return
		}
	}
}

// finish concludes a run exactly once, seals its aggregate, transitions into
// the terminal phase, and emits the single DoneEvent. The forced path and the
// natural path race benignly here; whoever comes first wins.
func (r *Runner) finish(cur *run, forced bool) {
	cur.doneOnce.Do(func() {
		r.mu.Lock()
		cur.sealed = true
		phase := Completed
		if forced {
			phase = ForceStopped
		}
		r.phase = phase
		elapsed := time.Since(cur.started)
		var rate float64
		if secs := elapsed.Seconds(); secs > 0 {
			rate = float64(cur.processed) / secs
		}
		summary := Summary{
			Phase:        phase,
			Stopped:      cur.stopped,
			Total:        cur.total,
			Processed:    cur.processed,
			ValidCount:   len(cur.valid),
			InvalidCount: len(cur.invalid),
			Elapsed:      elapsed,
			Rate:         rate,
		}
		r.mu.Unlock()
		cur.cancel()
		r.events <- DoneEvent{Summary: summary}
	})
}

// Phase returns the Runner's current lifecycle phase.
func (r *Runner) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Processed returns the number of domains that have received a counted
// outcome so far. During Running and StopRequested this is only eventually
// consistent with the event stream.
func (r *Runner) Processed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cur == nil {
		return 0
	}
	return r.cur.processed
}

// Valid returns a copy of the valid partition of the most recent run.
func (r *Runner) Valid() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cur == nil {
		return nil
	}
	return append([]string{}, r.cur.valid...)
}

// Invalid returns a copy of the invalid partition of the most recent run.
func (r *Runner) Invalid() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cur == nil {
		return nil
	}
	return append([]string{}, r.cur.invalid...)
}

// All returns the valid partition followed by the invalid partition, not the
// original submission order.
func (r *Runner) All() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cur == nil {
		return nil
	}
	all := make([]string, 0, len(r.cur.valid)+len(r.cur.invalid))
	all = append(all, r.cur.valid...)
	return append(all, r.cur.invalid...)
}
