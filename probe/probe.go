// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/starsigns/domainurlvalidator/types"

	"github.com/miekg/dns"
)

// DefaultTimeout bounds a single existence probe unless overridden with
// WithTimeout.
const DefaultTimeout = 3 * time.Second

// resolvconf is where the system resolver configuration is read from when no
// nameservers have been configured explicitly.
const resolvconf = "/etc/resolv.conf"

// ErrNoNameservers is returned by New when neither the options nor the system
// resolver configuration yield any upstream nameserver to probe against.
var ErrNoNameservers = errors.New("no nameservers configured")

// Prober turns a canonical probe target into a validation outcome. Probers
// must be safe for concurrent use by many workers.
type Prober interface {
	Probe(ctx context.Context, target string) types.Outcome
}

// ProberFunc adapts a plain function to the Prober interface.
type ProberFunc func(ctx context.Context, target string) types.Outcome

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, target string) types.Outcome {
	return f(ctx, target)
}

// Resolver performs single bounded-time DNS existence probes: one A query,
// followed by an AAAA query if the first one came back without addresses. A
// Resolver has no shared mutable state, so any number of workers may probe
// through it concurrently; probes are never cached or deduplicated.
type Resolver struct {
	client  *dns.Client
	servers []string // nameserver addresses in host:port form
	timeout time.Duration
}

var _ Prober = (*Resolver)(nil)

// ResolverOption can be passed to New when creating new Resolver objects.
type ResolverOption func(*Resolver)

// WithTimeout sets the per-probe time bound.
func WithTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

// WithNameservers sets explicit upstream nameservers (host:port) instead of
// the system resolver configuration. Servers are tried in order when an
// exchange fails on the transport level.
func WithNameservers(servers ...string) ResolverOption {
	return func(r *Resolver) {
		r.servers = append([]string{}, servers...)
	}
}

// New returns a Resolver probing against the configured nameservers, falling
// back to the system resolver configuration in /etc/resolv.conf.
func New(options ...ResolverOption) (*Resolver, error) {
	r := &Resolver{
		client:  &dns.Client{Net: "udp"},
		timeout: DefaultTimeout,
	}
	for _, opt := range options {
		opt(r)
	}
	if len(r.servers) == 0 {
		conf, err := dns.ClientConfigFromFile(resolvconf)
		if err != nil {
			return nil, fmt.Errorf("cannot read system resolver configuration: %w", err)
		}
		for _, server := range conf.Servers {
			r.servers = append(r.servers, net.JoinHostPort(server, conf.Port))
		}
	}
	if len(r.servers) == 0 {
		return nil, ErrNoNameservers
	}
	return r, nil
}

// Probe carries out one existence probe for the given canonical target,
// bounded by the Resolver's timeout. Any A or AAAA answer validates the
// target; NXDOMAIN and empty answers invalidate it with the diagnostic text
// preserved. A probe overrunning its bound yields a Timeout outcome, and a
// probe overtaken by run cancellation yields a Cancelled outcome, which
// callers are expected to discard rather than count.
func (r *Resolver) Probe(ctx context.Context, target string) types.Outcome {
	// Don't even start the exchange if the run has already been cancelled.
	select {
	case <-ctx.Done():
		return types.InvalidOutcome(target, types.Cancelled, "validation stopped")
	default:
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// ExchangeContext adjusts the client's timeouts in place, so work on a
	// private copy to keep concurrent probes independent.
	client := *r.client
	fqdn := dns.Fqdn(target)
	var lastErr string
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		reply, err := exchange(ctx, &client, fqdn, qtype, r.servers)
		if err != nil {
			return r.classify(ctx, target, err)
		}
		switch reply.Rcode {
		case dns.RcodeNameError:
			return types.InvalidOutcome(target, types.DNSError,
				fmt.Sprintf("lookup %s: no such host (NXDOMAIN)", target))
		case dns.RcodeSuccess:
			if hasAddresses(reply) {
				return types.ValidOutcome(target)
			}
			lastErr = fmt.Sprintf("lookup %s: no address records", target)
		default:
			lastErr = fmt.Sprintf("lookup %s: server responded %s",
				target, dns.RcodeToString[reply.Rcode])
		}
	}
	return types.InvalidOutcome(target, types.DNSError, lastErr)
}

// exchange queries one record type, failing over to the next configured
// nameserver on transport errors, but not once the probe deadline is up.
func exchange(ctx context.Context, client *dns.Client, fqdn string, qtype uint16, servers []string) (*dns.Msg, error) {
	var lastErr error
	for _, server := range servers {
		msg := new(dns.Msg)
		msg.SetQuestion(fqdn, qtype)
		msg.RecursionDesired = true
		reply, _, err := client.ExchangeContext(ctx, msg, server)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// classify maps an exchange failure onto the outcome taxonomy. Cancellation
// wins over the timeout the exchange inevitably also runs into, as a stopped
// run must never account a straggler probe as a timeout.
func (r *Resolver) classify(ctx context.Context, target string, err error) types.Outcome {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return types.InvalidOutcome(target, types.Cancelled, "validation stopped")
	case errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		isNetTimeout(err):
		return types.InvalidOutcome(target, types.Timeout,
			fmt.Sprintf("lookup %s: no answer within %v", target, r.timeout))
	default:
		return types.InvalidOutcome(target, types.DNSError,
			fmt.Sprintf("lookup %s: %v", target, err))
	}
}

func isNetTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func hasAddresses(reply *dns.Msg) bool {
	for _, rr := range reply.Answer {
		switch rr.(type) {
		case *dns.A, *dns.AAAA:
			return true
		}
	}
	return false
}
