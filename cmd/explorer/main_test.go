package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaczynskimat/robolab/config"
)

const samplePlanet = "../../planets/sample.yaml"

func TestRun_SimulatedSample(t *testing.T) {
	var out, logs bytes.Buffer
	err := run(context.Background(), &out, &logs, []string{"-planet", samplePlanet, "-log-level", "debug", "-log-format", "json"})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Planet Sample: target reached at (3,3)")
	assert.Contains(t, s, "Mothership: Target reached")
	assert.Contains(t, s, "(0,0): NORTH->(0,1)/SOUTH(1)")
	assert.True(t, strings.HasPrefix(logs.String(), "{"), "json logs")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "explorer.yaml")
	abs, err := filepath.Abs(samplePlanet)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"group: \"130\"\nlogging: {level: error}\nsimulation: {enabled: true, planet: "+abs+"}\nmission: {max_steps: 2}\n"), 0o600))

	var out, logs bytes.Buffer
	err = run(context.Background(), &out, &logs, []string{"-config", cfgPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 steps")
	assert.Empty(t, logs.String(), "only errors are logged")
}

func TestRun_GeneratedGrid(t *testing.T) {
	var out, logs bytes.Buffer
	err := run(context.Background(), &out, &logs, []string{"-grid", "3x3", "-seed", "4", "-log-level", "error"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Planet Grid3x3-4: exploration completed")

	assert.Error(t, run(context.Background(), &out, &logs, []string{"-grid", "three"}))
	assert.Error(t, run(context.Background(), &out, &logs, []string{"-grid", "1x1"}))
}

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), &out, &out, []string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_BadArguments(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(context.Background(), &out, &out, []string{"extra"}))
	assert.Error(t, run(context.Background(), &out, &out, []string{"-log-level", "loud"}))
	assert.Error(t, run(context.Background(), &out, &out, []string{"-planet", "nope.yaml"}))
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(options{planetPath: "x.yaml", logLevel: "WARN", logFormat: "json"})
	require.NoError(t, err)
	assert.Equal(t, "x.yaml", cfg.Simulation.Planet)
	assert.Equal(t, config.LoggingConfig{Level: "warn", Format: "json"}, cfg.Logging)
	assert.True(t, cfg.Simulation.Enabled)
}

func TestNewLogger_AutoOnBufferIsJSON(t *testing.T) {
	var buf bytes.Buffer
	newLogger("info", "auto", &buf).Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))

	buf.Reset()
	newLogger("warn", "text", &buf).Info("hidden")
	assert.Empty(t, buf.String())
}
