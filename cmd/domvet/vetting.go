// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/starsigns/domainurlvalidator/config"
	"github.com/starsigns/domainurlvalidator/domlist"
	"github.com/starsigns/domainurlvalidator/logging"
	"github.com/starsigns/domainurlvalidator/probe"
	"github.com/starsigns/domainurlvalidator/vet"

	"github.com/gosuri/uilive"
	"github.com/spf13/cobra"
)

// VetAndReport loads the domain list, runs one validation end-to-end while
// rendering live progress, prints the final summary, and writes any requested
// export files. A first interrupt requests a graceful stop; a second one
// abandons the run on the spot.
func VetAndReport(ctx context.Context, cmd *cobra.Command, listPath string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	domains, err := domlist.Load(listPath)
	if err != nil {
		return err
	}
	if len(domains) == 0 {
		return fmt.Errorf("domain list %q contains no domains", listPath)
	}

	resolverOptions := []probe.ResolverOption{probe.WithTimeout(*probeTimeout)}
	if len(cfg.Nameservers) > 0 {
		resolverOptions = append(resolverOptions, probe.WithNameservers(cfg.Nameservers...))
	}
	resolver, err := probe.New(resolverOptions...)
	if err != nil {
		return err
	}

	runner, events := vet.New(resolver, vet.WithGracePeriod(*gracePeriod))
	if err := runner.Start(domains, cfg.Workers); err != nil {
		return err
	}
	log.Info().
		Int("domains", len(domains)).
		Int("workers", cfg.Workers).
		Dur("timeout", *probeTimeout).
		Msg("validation started")

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)

	term := uilive.New()
	renderer := newRenderer(term, len(domains))
	defer renderer.Stop()
	redraw := time.NewTicker(100 * time.Millisecond)
	defer redraw.Stop()
	render := func() {
		if *quiet {
			return
		}
		renderer.Render()
		term.Flush()
	}

	stopRequests := 0
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case vet.ResultEvent:
				renderer.Outcome(ev.Outcome)
				log.Debug().
					Str("domain", ev.Outcome.Domain).
					Stringer("verdict", ev.Outcome.Verdict).
					Str("error", ev.Outcome.Err).
					Msg("probed")
			case vet.ProgressEvent:
				renderer.Progress(ev)
			case vet.DoneEvent:
				render()
				renderer.Summarize(os.Stdout, ev.Summary)
				log.Info().
					Int("processed", ev.Summary.Processed).
					Int("valid", ev.Summary.ValidCount).
					Int("invalid", ev.Summary.InvalidCount).
					Stringer("phase", ev.Summary.Phase).
					Msg("validation finished")
				return export(runner)
			}
		case <-interrupts:
			stopRequests++
			if stopRequests > 1 {
				return fmt.Errorf("validation aborted")
			}
			log.Warn().Msg("stop requested, waiting for workers to wind down")
			runner.RequestStop()
		case <-redraw.C:
			render()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// effectiveConfig merges the configuration file (if any) over the defaults and
// then lets explicitly set command line flags trump both.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flags := cmd.PersistentFlags()
	if flags.Changed("workers") {
		cfg.Workers = int(*workerNumber)
	}
	if flags.Changed("nameserver") {
		cfg.Nameservers = *nameservers
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = *logLevel
	}
	if !flags.Changed("timeout") && cfg.TimeoutSecs != config.DefaultTimeoutSecs {
		*probeTimeout = cfg.Timeout()
	}
	if !flags.Changed("grace") && cfg.GraceSecs != config.DefaultGraceSecs {
		*gracePeriod = cfg.Grace()
	}
	return cfg, cfg.Validate()
}

// export writes the requested result partitions, consuming the run's
// aggregate. Partial results of a stopped run export just as well.
func export(runner *vet.Runner) error {
	for _, job := range []struct {
		path    string
		domains []string
		subset  domlist.Subset
	}{
		{*exportValid, runner.Valid(), domlist.ValidOnly},
		{*exportInvalid, runner.Invalid(), domlist.InvalidOnly},
		{*exportAll, runner.All(), domlist.All},
	} {
		if job.path == "" {
			continue
		}
		if err := domlist.ExportFile(job.path, job.domains); err != nil {
			return fmt.Errorf("exporting %s domains: %w", job.subset, err)
		}
	}
	return nil
}
