// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/starsigns/domainurlvalidator/vet"

	"github.com/spf13/cobra"
)

var (
	configPath    *string
	workerNumber  *uint
	probeTimeout  *time.Duration
	gracePeriod   *time.Duration
	nameservers   *[]string
	logLevel      *string
	quiet         *bool
	exportValid   *string
	exportInvalid *string
	exportAll     *string
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:     "domvet [flags] domainfile",
		Short:   "domvet validates a list of domain names by probing whether they resolve",
		Version: "1.0",
		Args:    cobra.ExactArgs(1),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if *workerNumber < 1 || *workerNumber > vet.MaxWorkers {
				return fmt.Errorf("--workers out of range [1..%d]", vet.MaxWorkers)
			}
			if *probeTimeout < 100*time.Millisecond {
				return fmt.Errorf("--timeout must be at least 100ms")
			}
			if *gracePeriod < 100*time.Millisecond {
				return fmt.Errorf("--grace must be at least 100ms")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return VetAndReport(context.Background(), cmd, args[0])
		},
	}
	// Sets up the flags.
	configPath = rootCmd.PersistentFlags().String(
		"config", "", "YAML configuration file")
	workerNumber = rootCmd.PersistentFlags().Uint(
		"workers", 50, "number of concurrent probe workers")
	probeTimeout = rootCmd.PersistentFlags().Duration(
		"timeout", 3*time.Second, "per-probe DNS timeout")
	gracePeriod = rootCmd.PersistentFlags().Duration(
		"grace", 2*time.Second, "wait for workers after a stop request before force-stopping")
	nameservers = rootCmd.PersistentFlags().StringSlice(
		"nameserver", nil, "upstream nameserver (host:port), repeatable; default: system resolver")
	logLevel = rootCmd.PersistentFlags().String(
		"log-level", "", "log level (trace, debug, info, warn, error)")
	quiet = rootCmd.PersistentFlags().Bool(
		"quiet", false, "disable the live progress display")
	exportValid = rootCmd.PersistentFlags().String(
		"export-valid", "", "write resolving domains to this file afterwards")
	exportInvalid = rootCmd.PersistentFlags().String(
		"export-invalid", "", "write non-resolving domains to this file afterwards")
	exportAll = rootCmd.PersistentFlags().String(
		"export-all", "", "write all validated domains (valid, then invalid) to this file afterwards")
	return
}
