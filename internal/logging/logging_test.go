package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/require"

	"github.com/timzifer/accelconf/internal/config"
)

func TestSetupWritesJSONWithAppField(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := Setup(config.LoggingConfig{Level: "debug"}, &buf)
	require.NoError(t, err)
	defer cleanup()

	logger.Debug().Str("component", "writer").Msg("applied")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "accelconf", entry["app"])
	require.Equal(t, "writer", entry["component"])
	require.Equal(t, "applied", entry["message"])
}

func TestSetupHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := Setup(config.LoggingConfig{Level: "warn"}, &buf)
	require.NoError(t, err)
	defer cleanup()

	logger.Info().Msg("hidden")
	require.Zero(t, buf.Len())
}

func TestSetupRejectsBadOptions(t *testing.T) {
	_, _, err := Setup(config.LoggingConfig{Level: "loud"}, nil)
	require.Error(t, err)

	_, _, err = Setup(config.LoggingConfig{Format: "xml"}, nil)
	require.ErrorContains(t, err, "unknown log format")

	_, _, err = Setup(config.LoggingConfig{Loki: config.LokiConfig{Enabled: true}}, nil)
	require.ErrorContains(t, err, "loki url is required")
}

func TestLokiLabels(t *testing.T) {
	labels, err := lokiLabels(config.LokiConfig{})
	require.NoError(t, err)
	require.Equal(t, model.LabelSet{"app": "accelconf", "component": "cli"}, labels)

	labels, err = lokiLabels(config.LokiConfig{Labels: map[string]string{"component": "watch", "host": "desk"}})
	require.NoError(t, err)
	require.Equal(t, model.LabelValue("watch"), labels["component"])
	require.Equal(t, model.LabelValue("desk"), labels["host"])
	require.Equal(t, model.LabelValue("accelconf"), labels["app"])

	_, err = lokiLabels(config.LokiConfig{Labels: map[string]string{"bad-name": "x"}})
	require.ErrorContains(t, err, "invalid loki label")

	_, _, err = Setup(config.LoggingConfig{Loki: config.LokiConfig{Enabled: true, URL: "http://localhost:3100/loki/api/v1/push", Labels: map[string]string{"1st": "x"}}}, nil)
	require.ErrorContains(t, err, "invalid loki label")
}
