// Package logging builds the zerolog logger of the accelconf command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/grafana/loki-client-go/loki"
	"github.com/prometheus/common/model"
	"github.com/rs/zerolog"

	"github.com/timzifer/accelconf/internal/config"
)

const appName = "accelconf"

// Setup creates a zerolog logger writing to out according to cfg. The
// returned cleanup flushes the Loki sink when one is configured.
func Setup(cfg config.LoggingConfig, out io.Writer) (zerolog.Logger, func(), error) {
	if out == nil {
		out = os.Stderr
	}
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	var console io.Writer = out
	switch strings.ToLower(cfg.Format) {
	case "", "json":
	case "text", "console":
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		return zerolog.Logger{}, nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	writers := []io.Writer{console}
	cleanup := func() {}

	if cfg.Loki.Enabled {
		lokiWriter, closer, err := newLokiWriter(cfg.Loki)
		if err != nil {
			return zerolog.Logger{}, nil, err
		}
		writers = append(writers, lokiWriter)
		cleanup = func() {
			closer()
		}
	}

	multi := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(multi).With().Timestamp().Str("app", appName).Logger().Level(level)
	return logger, cleanup, nil
}

func newLokiWriter(cfg config.LokiConfig) (io.Writer, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("loki url is required")
	}
	labels, err := lokiLabels(cfg)
	if err != nil {
		return nil, nil, err
	}

	lokiCfg, err := loki.NewDefaultConfig(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare loki config: %w", err)
	}
	client, err := loki.New(lokiCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create loki client: %w", err)
	}

	writer := &lokiWriter{client: client, labels: labels}
	cleanup := func() {
		client.Stop()
	}
	return writer, cleanup, nil
}

// lokiLabels returns the stream labels of the Loki sink. Configured labels
// override the built-in app and component labels.
func lokiLabels(cfg config.LokiConfig) (model.LabelSet, error) {
	labels := model.LabelSet{
		"app":       appName,
		"component": "cli",
	}
	for k, v := range cfg.Labels {
		name := model.LabelName(k)
		if !name.IsValid() {
			return nil, fmt.Errorf("invalid loki label %q", k)
		}
		labels[name] = model.LabelValue(v)
	}
	return labels, nil
}

// lokiWriter pushes every log line as one entry. Lines written through
// WriteLevel carry a level label.
type lokiWriter struct {
	client *loki.Client
	labels model.LabelSet
}

func (l *lokiWriter) Write(p []byte) (int, error) {
	return l.push(l.labels, p)
}

func (l *lokiWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level == zerolog.NoLevel {
		return l.push(l.labels, p)
	}
	return l.push(l.labels.Merge(model.LabelSet{"level": model.LabelValue(level.String())}), p)
}

func (l *lokiWriter) push(labels model.LabelSet, p []byte) (int, error) {
	entry := strings.TrimSpace(string(p))
	if entry == "" {
		return len(p), nil
	}
	err := l.client.Handle(labels, time.Now(), entry)
	return len(p), err
}
