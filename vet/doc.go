/*
Package vet implements the validation run controller: the piece that turns a
raw domain list and a worker budget into a stream of per-domain outcomes,
progress notices, and exactly one final summary.

A [Runner] owns the run's lifecycle state machine ([Phase]) and its aggregate
(processed count and the valid/invalid partitions). Workers are plain loops on
a goroutine-limited pool: they pull canonical targets off the shared backlog,
probe them, and report outcomes through a single channel consumed by a lone
collector goroutine, so all aggregate mutation funnels through one place.

Cancellation is cooperative with a grace-period escalation to hard-cancel: a
stop request raises the run context's flag and drains the backlog, after which
workers are expected to bow out on their own; only when the grace period
elapses first is the run force-stopped, with outstanding workers abandoned to
park on the cancelled context and their late outcomes discarded. In-flight
probes are never forcibly interrupted.

	             +--------+
	[]string --> | Runner | --> ch Event
	             +--------+

# Acknowledgements

Under its hood, [Runner] leverages [gammazero/workerpool] as the limiting
goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package vet
