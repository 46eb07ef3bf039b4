/*
Package domlist does the validator's line-oriented list plumbing: loading a
candidate domain file and exporting result partitions, one domain per line.
*/
package domlist
