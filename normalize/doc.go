/*
Package normalize turns raw domain list lines into canonical probe targets.

The canonicalization is deliberately dumb: users paste anything from plain
domain names to full URLs into their lists, so we strip the usual URL garnish
and nothing more. Anything that boils down to an empty string is rejected as
malformed so it never wastes a resolver probe.
*/
package normalize
