package cliutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kabi-tools/internal/config"
)

func TestResolveJobsPrefersFlag(t *testing.T) {
	assert.Equal(t, 8, ResolveJobs(8, &config.Config{Jobs: 2}))
}

func TestResolveJobsFallsBackToConfig(t *testing.T) {
	assert.Equal(t, 2, ResolveJobs(0, &config.Config{Jobs: 2}))
}

func TestResolveJobsFallsBackToDefault(t *testing.T) {
	assert.Greater(t, ResolveJobs(0, &config.Config{}), 0)
}

func TestResolveFormatPrecedence(t *testing.T) {
	assert.Equal(t, "short", ResolveFormat("short", &config.Config{Format: "pretty"}))
	assert.Equal(t, "pretty", ResolveFormat("", &config.Config{Format: "pretty"}))
	assert.Equal(t, "pretty", ResolveFormat("", &config.Config{}))
}
