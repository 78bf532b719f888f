// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("skim", "info", false, &buf)
	logger.Debug("hidden")
	logger.Info("shown", "kind", "DivisionByZero")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO]  skim: shown: kind=DivisionByZero")
}

func TestNewLoggerDefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("skim", "", false, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("skim", "debug", true, &buf)
	logger.Named("eval").Debug("evaluation failed", "category", "Division by zero")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "skim.eval", entry["@module"])
	assert.Equal(t, "evaluation failed", entry["@message"])
	assert.Equal(t, "debug", entry["@level"])
	assert.Equal(t, "Division by zero", entry["category"])
}
