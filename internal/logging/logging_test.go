package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"DEBUG": LevelDebug, "": LevelInfo, "warning": LevelWarn, "error": LevelError} {
		got, ok := ParseLevel(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseLevel("loud")
	assert.False(t, ok)
}

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Format: "json", Output: &buf, Component: "mapper"})
	l.Debug("schema built", "kind", "Foo")
	out := buf.String()
	assert.Contains(t, out, `"component":"mapper"`)
	assert.Contains(t, out, `"kind":"Foo"`)
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Format: "text", Output: &buf})
	l.Info("hidden")
	l.Warn("shown")
	assert.False(t, strings.Contains(buf.String(), "hidden"))
	assert.Contains(t, buf.String(), "shown")
}
