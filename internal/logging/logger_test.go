package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(Options{Output: &buf})

	logger.Debug("hidden")
	logger.Info("flushed batch", "table", "employees")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "flushed batch")
	assert.Contains(t, buf.String(), "table=employees")

	SetVerbose(true)
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
	SetVerbose(false)
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(Options{Output: &buf, JSON: true, Verbose: true})
	logger.Debug("load committed", "records", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "load committed", entry["msg"])
	assert.Equal(t, float64(3), entry["records"])
	SetVerbose(false)
}
