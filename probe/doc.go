/*
Package probe implements the DNS existence probe that decides whether a single
domain name resolves.

A [Resolver] performs exactly one bounded-time existence check per call: an A
query, then an AAAA query if the first yields no addresses, against the
configured upstream nameservers (the system resolver configuration by
default). The reply is classified into the validator's outcome taxonomy; see
[Resolver.Probe]. There is deliberately no recursion handling, no DNSSEC, no
record-type selection, and no caching: repeated probes of the same name are
independent, matching the at-most-once-per-submission contract of the run
controller.

DNS plumbing is pure Go, leveraging the incredible Go module [miekg/dns].

[miekg/dns]: https://github.com/miekg/dns
*/
package probe
