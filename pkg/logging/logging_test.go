package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	var buf bytes.Buffer

	Init(false, &buf)
	For("engine").Debug("hidden")
	For("engine").Info("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "component=engine")

	buf.Reset()
	Init(true, &buf)
	For("orchestrator").Debug("now shown")
	assert.True(t, strings.Contains(buf.String(), "now shown"))

	Discard()
	For("orchestrator").Info("gone")
	assert.NotContains(t, buf.String(), "gone")
}
