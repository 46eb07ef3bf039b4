/*
Package config holds the validator's YAML-backed configuration: worker budget,
probe timeout, stop grace period, upstream nameservers, and the logging setup.
Defaults are always applied first, so a configuration file only needs to spell
out what deviates.
*/
package config
