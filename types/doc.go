/*
Package types defines the validator's information model. Which is rather simple
and mainly revolves around [Outcome] and the validation [Verdict] of domain
names, with [Reason] classifying why a particular domain failed validation.

Outcomes are immutable values: they are created once by the probing layer and
then only ever copied, so they can travel through channels between the worker
pool, the run controller, and whatever presentation sits on top without any
locking mess.
*/
package types
