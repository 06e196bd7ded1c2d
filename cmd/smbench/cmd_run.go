// Copyright 2020-2026 The smstream Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/serviceflow/smstream"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cmdRead = &cobra.Command{
	Use:   "read",
	Short: "Measure reading a filled stream from the start",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		check(run(cmd.OutOrStdout(), runRead))
	},
}

var cmdWrite = &cobra.Command{
	Use:   "write",
	Short: "Measure filling a new stream in 64KiB writes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		check(run(cmd.OutOrStdout(), runWrite))
	},
}

func init() {
	cmdMain.AddCommand(cmdRead, cmdWrite)
}

type settings struct {
	Sizes       []uint64
	Iterations  int
	Exponent    int
	Pool        bool
	MetricsAddr string
}

func loadSettings() (settings, error) {
	sizes, err := parseSizes(config.GetStringSlice("sizes"))
	if err != nil {
		return settings{}, err
	}
	s := settings{
		Sizes:       sizes,
		Iterations:  config.GetInt("iterations"),
		Exponent:    config.GetInt("exponent"),
		Pool:        config.GetBool("pool"),
		MetricsAddr: config.GetString("metrics-addr"),
	}
	if s.Iterations <= 0 {
		return settings{}, errors.Errorf("iterations %d must be positive", s.Iterations)
	}
	return s, nil
}

func run(out io.Writer, bench func(target, uint64, int) (result, error)) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	opts := smstream.DefaultOptions().
		WithSegmentSizeExponent(s.Exponent).
		WithLogger(logrus.StandardLogger())
	if s.Pool {
		alloc := smstream.NewPoolAllocator()
		opts = opts.WithAllocator(alloc)
		if s.MetricsAddr != "" {
			stop, err := startMetricsService(s.MetricsAddr, alloc)
			if err != nil {
				return err
			}
			defer stop()
		}
	}
	// fail on bad options before measuring anything
	probe, err := smstream.New(opts)
	if err != nil {
		return err
	}
	if err := probe.Close(); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"sizes":      len(s.Sizes),
		"iterations": s.Iterations,
		"exponent":   s.Exponent,
		"pool":       s.Pool,
	}).Info("Starting benchmark")

	tw := tabwriter.NewWriter(out, 2, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "OP\tSTREAM\tSIZE\tITERATIONS\tTHROUGHPUT\tALLOCS/OP\tBYTES/OP")
	for _, size := range s.Sizes {
		for _, t := range targets(opts) {
			r, err := bench(t, size, s.Iterations)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"op":      r.Op,
				"stream":  r.Target,
				"size":    r.Size,
				"elapsed": r.Elapsed,
			}).Debug("Finished run")
			fmt.Fprintln(tw, r)
		}
	}
	return tw.Flush()
}

func startMetricsService(address string, alloc *smstream.PoolAllocator) (func(), error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(smstream.NewCollector("smbench", alloc)); err != nil {
		return nil, errors.WithStack(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog:      logrus.StandardLogger(),
		ErrorHandling: promhttp.ContinueOnError,
	}))
	srv := &http.Server{Addr: address, Handler: mux}

	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Failed to start metrics http server")
		}
	}()
	logrus.WithField("address", address).Info("Started metric service")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logrus.WithError(err).Error("Failed to shutdown metrics http server")
		}
	}, nil
}
