// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package vet

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/starsigns/domainurlvalidator/probe"
	"github.com/starsigns/domainurlvalidator/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

// consume drains the event stream until the run's DoneEvent arrives, failing
// the test if it does not arrive in time.
func consume(events <-chan Event, within time.Duration) (results []types.Outcome, progresses []ProgressEvent, summary Summary) {
	timeout := time.After(within)
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case ResultEvent:
				results = append(results, ev.Outcome)
			case ProgressEvent:
				progresses = append(progresses, ev)
			case DoneEvent:
				return results, progresses, ev.Summary
			}
		case <-timeout:
			Fail("timed out waiting for the run's DoneEvent")
		}
	}
}

// probedTargets is a concurrency-safe record of what a stub prober was asked
// to probe.
type probedTargets struct {
	mu      sync.Mutex
	targets []string
}

func (p *probedTargets) add(target string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.targets = append(p.targets, target)
}

func (p *probedTargets) all() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.targets...)
}

// vetByPrefix answers valid for every target not starting with "bad".
func vetByPrefix(probed *probedTargets) probe.ProberFunc {
	return func(_ context.Context, target string) types.Outcome {
		if probed != nil {
			probed.add(target)
		}
		if strings.HasPrefix(target, "bad") {
			return types.InvalidOutcome(target, types.DNSError, "no such host")
		}
		return types.ValidOutcome(target)
	}
}

var _ = Describe("validation runner", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("accounts every submitted domain exactly once", func() {
		probed := &probedTargets{}
		runner, events := New(vetByPrefix(probed), WithStatsInterval(10*time.Millisecond))
		domains := []string{
			"example.com",
			"http://example.org/path",
			"bad.test",
			"   ",      // malformed after trimming
			"https://", // malformed after scheme stripping
		}
		Expect(runner.Start(domains, 4)).To(Succeed())

		results, progresses, summary := consume(events, 5*time.Second)

		Expect(summary.Phase).To(Equal(Completed))
		Expect(summary.Stopped).To(BeFalse())
		Expect(summary.Total).To(Equal(5))
		Expect(summary.Processed).To(Equal(5))
		Expect(summary.ValidCount + summary.InvalidCount).To(Equal(summary.Processed))
		Expect(runner.Phase()).To(Equal(Completed))

		Expect(runner.Valid()).To(ConsistOf("example.com", "example.org"))
		Expect(runner.Invalid()).To(HaveLen(3))
		Expect(runner.All()).To(HaveLen(5))

		Expect(results).To(HaveLen(5))
		seen := map[string]int{}
		for _, outcome := range results {
			seen[outcome.Domain]++
		}
		for domain, count := range seen {
			Expect(count).To(Equal(1), "duplicate outcome for %q", domain)
		}

		// malformed lines must never have reached the prober, and the URL
		// line must have been probed in canonical form.
		Expect(probed.all()).To(ConsistOf("example.com", "example.org", "bad.test"))

		// one progress event per outcome, monotonically counting up.
		Expect(progresses).To(HaveLen(5))
		for idx, progress := range progresses {
			Expect(progress.Processed).To(Equal(idx + 1))
			Expect(progress.Total).To(Equal(5))
		}
	})

	It("completes a run of nothing but malformed lines without any probing", func() {
		probed := &probedTargets{}
		runner, events := New(vetByPrefix(probed))
		Expect(runner.Start([]string{" ", "http://", "///"}, 50)).To(Succeed())

		results, _, summary := consume(events, 5*time.Second)
		Expect(summary.Processed).To(Equal(3))
		Expect(summary.InvalidCount).To(Equal(3))
		Expect(probed.all()).To(BeEmpty())
		for _, outcome := range results {
			Expect(outcome.Reason).To(Equal(types.MalformedInput))
		}
	})

	It("rejects an empty domain list and stays idle", func() {
		runner, _ := New(vetByPrefix(nil))
		Expect(runner.Start(nil, 50)).To(MatchError(ErrNoInput))
		Expect(runner.Phase()).To(Equal(Idle))
	})

	It("rejects worker counts outside the configured range", func() {
		runner, _ := New(vetByPrefix(nil))
		Expect(runner.Start([]string{"example.com"}, 0)).To(MatchError(ErrWorkerCount))
		Expect(runner.Start([]string{"example.com"}, MaxWorkers+1)).To(MatchError(ErrWorkerCount))
		Expect(runner.Phase()).To(Equal(Idle))
	})

	It("rejects overlapping runs", func() {
		release := make(chan struct{})
		runner, events := New(probe.ProberFunc(
			func(ctx context.Context, target string) types.Outcome {
				select {
				case <-release:
				case <-ctx.Done():
				}
				return types.ValidOutcome(target)
			}))
		Expect(runner.Start([]string{"example.com"}, 1)).To(Succeed())
		Expect(runner.Start([]string{"example.org"}, 1)).To(MatchError(ErrAlreadyRunning))
		close(release)
		_, _, summary := consume(events, 5*time.Second)
		Expect(summary.Processed).To(Equal(1))
	})

	It("winds down gracefully on a stop request right after starting", func() {
		domains := make([]string, 10000)
		for i := range domains {
			domains[i] = fmt.Sprintf("domain-%d.example", i)
		}
		runner, events := New(probe.ProberFunc(
			func(ctx context.Context, target string) types.Outcome {
				select {
				case <-time.After(time.Millisecond):
				case <-ctx.Done():
					return types.InvalidOutcome(target, types.Cancelled, "validation stopped")
				}
				return types.ValidOutcome(target)
			}),
			WithGracePeriod(2*time.Second))
		Expect(runner.Start(domains, 50)).To(Succeed())
		runner.RequestStop()

		_, _, summary := consume(events, 5*time.Second)
		Expect(summary.Stopped).To(BeTrue())
		Expect(summary.Phase).To(Equal(Completed), "workers honour the flag, no force stop needed")
		Expect(summary.Processed).To(BeNumerically("<=", 10000))
		Expect(summary.ValidCount + summary.InvalidCount).To(Equal(summary.Processed))

		// a fresh run over the same input must not carry anything over.
		Expect(runner.Start(domains[:100], 50)).To(Succeed())
		results, _, summary := consume(events, 5*time.Second)
		Expect(summary.Processed).To(Equal(100))
		Expect(results).To(HaveLen(100))
	})

	It("force-stops a run whose workers overstay the grace period", func() {
		runner, events := New(probe.ProberFunc(
			func(context.Context, string) types.Outcome {
				time.Sleep(500 * time.Millisecond) // deaf to cancellation
				return types.ValidOutcome("whatever")
			}),
			WithGracePeriod(50*time.Millisecond))
		Expect(runner.Start([]string{"a.example", "b.example", "c.example"}, 3)).To(Succeed())
		time.Sleep(10 * time.Millisecond) // let the workers reach their probes
		runner.RequestStop()

		started := time.Now()
		_, _, summary := consume(events, 5*time.Second)
		Expect(time.Since(started)).To(BeNumerically("<", 400*time.Millisecond),
			"the summary must not wait for the deaf workers")
		Expect(summary.Phase).To(Equal(ForceStopped))
		Expect(summary.Stopped).To(BeTrue())
		Expect(summary.Processed).To(BeZero())

		// stragglers finishing after the force stop must be discarded.
		time.Sleep(600 * time.Millisecond)
		Expect(runner.Processed()).To(BeZero())
		Expect(runner.Phase()).To(Equal(ForceStopped))
	})

	It("runs back to back with independent accounting", func() {
		runner, events := New(vetByPrefix(nil))
		domains := []string{"example.com", "bad.test", "example.net"}
		for round := 1; round <= 2; round++ {
			By(fmt.Sprintf("%d round", round))
			Expect(runner.Start(domains, 2)).To(Succeed())
			results, _, summary := consume(events, 5*time.Second)
			Expect(summary.Processed).To(Equal(3))
			Expect(summary.ValidCount).To(Equal(2))
			Expect(summary.InvalidCount).To(Equal(1))
			Expect(results).To(HaveLen(3))
		}
	})

})
