// Package driver contains the collaborators that hand the binary record to
// the running driver and read the active record back.
package driver

import (
	"errors"
	"fmt"
	"sync"

	"github.com/timzifer/accelconf/layout"
)

var (
	// ErrNoActiveConfig is returned by Read when the driver holds no record.
	ErrNoActiveConfig = errors.New("no active configuration")
	// ErrVersionMismatch is returned by Read when the stored record was
	// written by an incompatible format version.
	ErrVersionMismatch = errors.New("driver version mismatch")
)

// Transport writes and reads the driver record. Implementations report
// failures as *IOError and never retry.
type Transport interface {
	Write(rec *layout.Record) error
	Read() (*layout.Record, error)
}

// IOError is a transport failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("driver %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("driver %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// MemoryTransport keeps the record in memory. WriteErr and ReadErr, when
// set, are returned instead of performing the operation.
type MemoryTransport struct {
	mu       sync.Mutex
	rec      *layout.Record
	writes   int
	WriteErr error
	ReadErr  error
}

// Write stores a copy of rec.
func (m *MemoryTransport) Write(rec *layout.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return &IOError{Op: "write", Err: m.WriteErr}
	}
	if rec == nil {
		return &IOError{Op: "write", Err: errors.New("nil record")}
	}
	cp := new(layout.Record)
	*cp = *rec
	m.rec = cp
	m.writes++
	return nil
}

// Read returns a copy of the last written record.
func (m *MemoryTransport) Read() (*layout.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, &IOError{Op: "read", Err: m.ReadErr}
	}
	if m.rec == nil {
		return nil, &IOError{Op: "read", Err: ErrNoActiveConfig}
	}
	cp := new(layout.Record)
	*cp = *m.rec
	return cp, nil
}

// Writes reports how many records were stored.
func (m *MemoryTransport) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
