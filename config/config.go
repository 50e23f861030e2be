// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

// Package config assembles the settings of the tracemem tools from command
// line flags, environment variables and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/0xsoniclabs/tracemem/logger"
	"github.com/0xsoniclabs/tracemem/pass"
	"github.com/0xsoniclabs/tracemem/tracer"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	// TraceCapacityEnv holds the number of events the recorder retains.
	TraceCapacityEnv = "TRACE_MEM_TRACES"
	// TraceFileEnv holds the path of the trace log.
	TraceFileEnv = "TRACE_MEM_FILE"
	// DefaultTraceFile is the trace log written when nothing is configured.
	DefaultTraceFile = "trace.txt"
)

// ArgumentType defines the positional arguments a command expects.
type ArgumentType int

const (
	NoArgs ArgumentType = iota
	OneArg
	OneArgOrMore
)

// Config contains the settings of one tool invocation.
type Config struct {
	AppName     string
	CommandName string

	Input     string   // positional input file
	EntryArgs []uint64 // arguments following the input of the run command

	Output        string
	ConfigFile    string
	ReadHook      string
	WriteHook     string
	Excluded      []string
	StatsFile     string
	StatsDb       string
	CallGraph     string
	Entry         string
	TraceFile     string
	TraceCapacity int
	HtmlFile      string
	LogLevel      string
}

// fileConfig is the layout of the YAML file given by --config.
type fileConfig struct {
	ReadHook      string   `yaml:"read-hook"`
	WriteHook     string   `yaml:"write-hook"`
	Excluded      []string `yaml:"excluded-functions"`
	TraceFile     string   `yaml:"trace-file"`
	TraceCapacity int      `yaml:"trace-capacity"`
}

// NewConfig creates and validates the configuration of the running command.
func NewConfig(ctx *cli.Context, mode ArgumentType) (*Config, error) {
	cfg := createConfigFromFlags(ctx)

	args := ctx.Args()
	switch mode {
	case OneArg:
		if args.Len() != 1 {
			return nil, fmt.Errorf("command requires exactly 1 argument, got %d", args.Len())
		}
		cfg.Input = args.First()
	case OneArgOrMore:
		if args.Len() < 1 {
			return nil, fmt.Errorf("command requires at least 1 argument")
		}
		cfg.Input = args.First()
		for _, a := range args.Tail() {
			v, err := parseArgument(a)
			if err != nil {
				return nil, err
			}
			cfg.EntryArgs = append(cfg.EntryArgs, v)
		}
	case NoArgs:
		if args.Len() != 0 {
			return nil, fmt.Errorf("command takes no arguments")
		}
	}

	if cfg.ConfigFile != "" {
		if err := cfg.loadFile(ctx, cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	if !ctx.IsSet(TraceCapacityFlag.Name) && cfg.TraceCapacity == 0 {
		cfg.TraceCapacity = ParseCapacity(os.Getenv(TraceCapacityEnv))
	}
	if cfg.TraceCapacity <= 0 {
		cfg.TraceCapacity = tracer.DefaultCapacity
	}
	if cfg.TraceFile == "" {
		cfg.TraceFile = DefaultTraceFile
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path. Flags given on the command line
// take precedence; excluded functions accumulate.
func (cfg *Config) loadFile(ctx *cli.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	if fc.ReadHook != "" && !ctx.IsSet(ReadHookFlag.Name) {
		cfg.ReadHook = fc.ReadHook
	}
	if fc.WriteHook != "" && !ctx.IsSet(WriteHookFlag.Name) {
		cfg.WriteHook = fc.WriteHook
	}
	if fc.TraceFile != "" && !ctx.IsSet(TraceFileFlag.Name) {
		cfg.TraceFile = fc.TraceFile
	}
	if fc.TraceCapacity > 0 && !ctx.IsSet(TraceCapacityFlag.Name) {
		cfg.TraceCapacity = fc.TraceCapacity
	}
	cfg.Excluded = append(cfg.Excluded, fc.Excluded...)
	return nil
}

// PassOptions converts the configuration into options of the instrumentation pass.
func (cfg *Config) PassOptions() pass.Options {
	opts := pass.DefaultOptions()
	if cfg.ReadHook != "" {
		opts.ReadHook = cfg.ReadHook
	}
	if cfg.WriteHook != "" {
		opts.WriteHook = cfg.WriteHook
	}
	for _, name := range cfg.Excluded {
		opts.Excluded[name] = true
	}
	return opts
}

// Logger creates a logger for module at the configured level.
func (cfg *Config) Logger(module string) logger.Logger {
	return logger.NewLogger(cfg.LogLevel, module)
}

// ParseCapacity interprets a configured trace capacity. Empty, malformed,
// zero and negative values yield the default.
func ParseCapacity(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return tracer.DefaultCapacity
	}
	return n
}

func parseArgument(s string) (uint64, error) {
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return uint64(v), nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid argument %q: %w", s, err)
	}
	return v, nil
}
