/*
Package backlog implements the shared work queue of probe targets feeding the
validation worker pool.

A [Backlog] is loaded once at run start and from then on only ever shrinks:
workers take targets off it one at a time, and a stop request drains whatever
is left in one atomic swoop. A single mutex covers both operations, which is
all that is needed to guarantee at-most-once delivery.
*/
package backlog
