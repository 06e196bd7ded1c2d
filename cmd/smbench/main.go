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
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cmdMain = &cobra.Command{
	Use:               "smbench",
	Short:             "Compare segmented and contiguous in-memory streams",
	PersistentPreRunE: setup,
	Run:               printUsageAndExit1,
}

var flagMain struct {
	Config   string
	LogLevel string
}

// config holds flags, environment (SMBENCH_*) and the optional config
// file, in that order of precedence.
var config = viper.New()

func init() {
	cmdMain.PersistentFlags().StringVarP(&flagMain.Config, "config", "c", "", "Config file (yaml, toml or json)")
	cmdMain.PersistentFlags().StringVar(&flagMain.LogLevel, "log-level", "info", "Log level")
	benchFlags(cmdMain.PersistentFlags())

	config.SetEnvPrefix("SMBENCH")
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()
}

// benchFlags registers the settings read back through config.
func benchFlags(fs *pflag.FlagSet) {
	fs.StringSlice("sizes", []string{"64KiB", "1MiB", "16MiB"}, "Payload sizes")
	fs.Int("iterations", 10, "Iterations per payload size")
	fs.Int("exponent", 16, "Segment size exponent of the segmented stream")
	fs.Bool("pool", false, "Recycle segments through a pool allocator")
	fs.String("metrics-addr", "", "Serve allocator metrics on this address while running")
}

func main() {
	if err := cmdMain.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	level, err := logrus.ParseLevel(flagMain.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	if err := config.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if flagMain.Config != "" {
		config.SetConfigFile(flagMain.Config)
		if err := config.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", flagMain.Config)
		}
	}
	return nil
}

func printUsageAndExit1(cmd *cobra.Command, args []string) {
	_ = cmd.Usage()
	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func check(err error) {
	if err != nil {
		fatalf("%+v", err)
	}
}
