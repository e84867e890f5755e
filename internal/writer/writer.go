// Package writer applies settings texts to the driver and reads the active
// settings back. It is the layer between the command line and the config
// document.
package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/timzifer/accelconf/config"
	"github.com/timzifer/accelconf/driver"
	"github.com/timzifer/accelconf/internal/reload"
	"github.com/timzifer/accelconf/layout"
	"github.com/timzifer/accelconf/settings"
	"github.com/timzifer/accelconf/telemetry"
)

// ErrReadbackMismatch is returned when the record read back after a write
// differs from the record that was written.
var ErrReadbackMismatch = errors.New("driver record differs after write")

// Writer validates settings and hands them to a driver transport.
type Writer struct {
	transport driver.Transport
	logger    zerolog.Logger
	collector telemetry.Collector
	verify    bool
	delay     time.Duration
	docOpts   []config.Option
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger. The writer adds a component field.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// WithCollector sets the telemetry collector.
func WithCollector(c telemetry.Collector) Option {
	return func(w *Writer) {
		if c != nil {
			w.collector = c
		}
	}
}

// WithReadbackVerify enables reading the record back after every write.
func WithReadbackVerify(enabled bool) Option {
	return func(w *Writer) {
		w.verify = enabled
	}
}

// WithWriteDelay overrides how long to wait before reading back.
func WithWriteDelay(d time.Duration) Option {
	return func(w *Writer) {
		w.delay = d
	}
}

// WithDocumentOptions passes options to every document the writer builds.
func WithDocumentOptions(opts ...config.Option) Option {
	return func(w *Writer) {
		w.docOpts = append(w.docOpts, opts...)
	}
}

// New creates a writer for the given transport.
func New(t driver.Transport, opts ...Option) *Writer {
	w := &Writer{
		transport: t,
		logger:    zerolog.Nop(),
		collector: telemetry.Noop(),
		delay:     settings.WriteDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	w.logger = w.logger.With().Str("component", "writer").Logger()
	return w
}

// Check parses and validates a settings text without touching the driver.
func (w *Writer) Check(text string) (*config.Document, error) {
	doc, err := config.FromText(text, w.docOpts...)
	if err != nil {
		var parseErr *config.ParseError
		if errors.As(err, &parseErr) {
			w.collector.IncValidationFailure(telemetry.KindParse)
			w.logger.Warn().Err(err).Msg("settings text unreadable")
		} else {
			w.collector.IncValidationFailure(telemetry.KindSemantic)
			w.logger.Warn().Msg("settings rejected")
		}
		return nil, err
	}
	w.logger.Debug().
		Int("profiles", len(doc.Profiles())).
		Int("devices", len(doc.Devices())).
		Msg("settings valid")
	return doc, nil
}

// Apply validates text and activates it.
func (w *Writer) Apply(ctx context.Context, text string) (*config.Document, error) {
	doc, err := w.Check(text)
	if err != nil {
		return nil, err
	}
	if err := w.activate(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ApplyFile reads a settings file and applies it.
func (w *Writer) ApplyFile(ctx context.Context, path string) (*config.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	doc, err := w.Apply(ctx, string(raw))
	if err != nil {
		return nil, err
	}
	w.logger.Info().Str("file", path).Int("profiles", len(doc.Profiles())).Msg("settings applied")
	return doc, nil
}

// Reset activates the built-in defaults.
func (w *Writer) Reset(ctx context.Context) (*config.Document, error) {
	doc, err := config.LoadDefault(w.docOpts...)
	if err != nil {
		return nil, err
	}
	if err := w.activate(ctx, doc); err != nil {
		return nil, err
	}
	w.logger.Info().Msg("default settings applied")
	return doc, nil
}

// Show returns the settings text of the active driver record.
func (w *Writer) Show() (string, error) {
	doc, err := config.LoadActive(w.transport, w.docOpts...)
	if err != nil {
		if errors.Is(err, driver.ErrNoActiveConfig) {
			w.logger.Info().Msg("driver holds no settings")
		}
		return "", err
	}
	return doc.ToText()
}

func (w *Writer) activate(ctx context.Context, doc *config.Document) error {
	if err := doc.Activate(w.transport); err != nil {
		w.collector.IncActivation(telemetry.OutcomeFailed)
		w.countTransportFailure(err)
		w.logger.Error().Err(err).Msg("driver write failed")
		return err
	}
	if w.verify {
		if err := w.verifyActive(ctx, doc); err != nil {
			if errors.Is(err, ErrReadbackMismatch) {
				w.collector.IncActivation(telemetry.OutcomeMismatch)
			} else {
				w.collector.IncActivation(telemetry.OutcomeFailed)
				w.countTransportFailure(err)
			}
			w.logger.Error().Err(err).Msg("driver read back failed")
			return err
		}
	}
	w.collector.IncActivation(telemetry.OutcomeApplied)
	return nil
}

func (w *Writer) countTransportFailure(err error) {
	var ioErr *driver.IOError
	if errors.As(err, &ioErr) {
		w.collector.IncValidationFailure(telemetry.KindTransport)
	}
}

func (w *Writer) verifyActive(ctx context.Context, doc *config.Document) error {
	if w.delay > 0 {
		timer := time.NewTimer(w.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	want, err := doc.ToLayout()
	if err != nil {
		return err
	}
	got, err := w.transport.Read()
	if err != nil {
		return err
	}
	var wantBuf, gotBuf bytes.Buffer
	if err := layout.Encode(&wantBuf, want); err != nil {
		return err
	}
	if err := layout.Encode(&gotBuf, got); err != nil {
		return err
	}
	if !bytes.Equal(wantBuf.Bytes(), gotBuf.Bytes()) {
		return ErrReadbackMismatch
	}
	return nil
}

// Watch applies the settings file whenever it changes until ctx is done.
// Rejected texts are logged and the previous settings stay active.
func (w *Writer) Watch(ctx context.Context, path string, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	watcher, err := reload.NewWatcher(path)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			changes, err := watcher.Check()
			if err != nil {
				w.logger.Error().Err(err).Msg("failed to check settings changes")
				continue
			}
			if len(changes) == 0 {
				continue
			}
			if _, err := os.Stat(path); err != nil {
				w.logger.Warn().Err(err).Str("file", path).Msg("settings file unavailable")
				continue
			}
			if _, err := w.ApplyFile(ctx, path); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Error().Err(err).Str("file", path).Msg("reloaded settings not applied")
				continue
			}
			for _, file := range changes {
				w.collector.IncHotReload(file)
			}
		}
	}
}
