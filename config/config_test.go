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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0xsoniclabs/tracemem/logger"
	"github.com/0xsoniclabs/tracemem/tracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// runConfig executes a throwaway app with every flag and returns the
// configuration built by its single command.
func runConfig(t *testing.T, mode ArgumentType, args ...string) (*Config, error) {
	t.Helper()
	var (
		cfg    *Config
		cfgErr error
	)
	app := &cli.App{
		Name: "tracemem-test",
		Commands: []*cli.Command{{
			Name: "cmd",
			Flags: []cli.Flag{
				copyOf(OutputFlag),
				copyOf(ConfigFileFlag),
				copyOf(ExcludedFunctionsFlag),
				copyOf(ReadHookFlag),
				copyOf(WriteHookFlag),
				copyOf(StatsFileFlag),
				copyOf(StatsDbFlag),
				copyOf(CallGraphFlag),
				copyOf(EntryFlag),
				copyOf(TraceFileFlag),
				copyOf(TraceCapacityFlag),
				copyOf(HtmlFlag),
				copyOf(logger.LogLevelFlag),
			},
			Action: func(ctx *cli.Context) error {
				cfg, cfgErr = NewConfig(ctx, mode)
				return nil
			},
		}},
	}
	require.NoError(t, app.Run(append([]string{"tracemem-test", "cmd"}, args...)))
	return cfg, cfgErr
}

// copyOf keeps flag state such as HasBeenSet from leaking between app runs.
func copyOf[T any](flag T) *T {
	return &flag
}

func clearEnv(t *testing.T) {
	t.Setenv(TraceCapacityEnv, "")
	t.Setenv(TraceFileEnv, "")
	require.NoError(t, os.Unsetenv(TraceCapacityEnv))
	require.NoError(t, os.Unsetenv(TraceFileEnv))
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := runConfig(t, OneArg, "in.ll")
	require.NoError(t, err)

	assert.Equal(t, "cmd", cfg.CommandName)
	assert.Equal(t, "in.ll", cfg.Input)
	assert.Equal(t, DefaultTraceFile, cfg.TraceFile)
	assert.Equal(t, tracer.DefaultCapacity, cfg.TraceCapacity)
	assert.Equal(t, "main", cfg.Entry)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Excluded)
}

func TestNewConfig_ArgumentModes(t *testing.T) {
	clearEnv(t)
	_, err := runConfig(t, OneArg)
	assert.ErrorContains(t, err, "exactly 1 argument")

	_, err = runConfig(t, OneArg, "a.ll", "b.ll")
	assert.Error(t, err)

	_, err = runConfig(t, NoArgs, "a.ll")
	assert.ErrorContains(t, err, "no arguments")

	_, err = runConfig(t, OneArgOrMore)
	assert.Error(t, err)

	cfg, err := runConfig(t, OneArgOrMore, "a.ll", "10", "-1", "0x20")
	require.NoError(t, err)
	assert.Equal(t, []uint64{10, ^uint64(0), 0x20}, cfg.EntryArgs)

	_, err = runConfig(t, OneArgOrMore, "a.ll", "ten")
	assert.ErrorContains(t, err, "invalid argument")
}

func TestNewConfig_CapacityFromEnvironment(t *testing.T) {
	tests := map[string]int{
		"16":  16,
		"":    tracer.DefaultCapacity,
		"abc": tracer.DefaultCapacity,
		"0":   tracer.DefaultCapacity,
		"-5":  tracer.DefaultCapacity,
	}
	for env, want := range tests {
		t.Run(env, func(t *testing.T) {
			t.Setenv(TraceCapacityEnv, env)
			cfg, err := runConfig(t, OneArg, "in.ll")
			require.NoError(t, err)
			assert.Equal(t, want, cfg.TraceCapacity)
		})
	}
}

func TestNewConfig_CapacityFlagOverridesEnvironment(t *testing.T) {
	t.Setenv(TraceCapacityEnv, "16")
	cfg, err := runConfig(t, OneArg, "--trace-capacity", "8", "in.ll")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.TraceCapacity)
}

func TestNewConfig_TraceFileFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(TraceFileEnv, "/tmp/custom.txt")
	cfg, err := runConfig(t, OneArg, "in.ll")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.txt", cfg.TraceFile)
}

func TestNewConfig_LoadsYamlFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tracemem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
read-hook: my_read
write-hook: my_write
excluded-functions: [init, fini]
trace-file: from-file.txt
trace-capacity: 5
`), 0o644))

	cfg, err := runConfig(t, OneArg, "--config", path, "--write-hook", "flag_write", "--excluded-functions", "main", "in.ll")
	require.NoError(t, err)
	assert.Equal(t, "my_read", cfg.ReadHook)
	assert.Equal(t, "flag_write", cfg.WriteHook)
	assert.Equal(t, []string{"main", "init", "fini"}, cfg.Excluded)
	assert.Equal(t, "from-file.txt", cfg.TraceFile)
	assert.Equal(t, 5, cfg.TraceCapacity)

	opts := cfg.PassOptions()
	assert.Equal(t, "my_read", opts.ReadHook)
	assert.Equal(t, "flag_write", opts.WriteHook)
	assert.Equal(t, map[string]bool{"main": true, "init": true, "fini": true}, opts.Excluded)
}

func TestNewConfig_BadYamlFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("read-hook: [unterminated"), 0o644))

	_, err := runConfig(t, OneArg, "--config", path, "in.ll")
	assert.ErrorContains(t, err, "cannot parse config file")

	_, err = runConfig(t, OneArg, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "in.ll")
	assert.ErrorContains(t, err, "cannot read config file")
}

func TestParseCapacity(t *testing.T) {
	assert.Equal(t, 128, ParseCapacity("128"))
	assert.Equal(t, tracer.DefaultCapacity, ParseCapacity(""))
	assert.Equal(t, tracer.DefaultCapacity, ParseCapacity(" 5"))
	assert.Equal(t, tracer.DefaultCapacity, ParseCapacity("-1"))
}
