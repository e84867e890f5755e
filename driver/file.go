package driver

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/timzifer/accelconf/layout"
	"github.com/timzifer/accelconf/settings"
)

var fileMagic = [4]byte{'R', 'A', 'C', 'F'}

type fileHeader struct {
	Magic [4]byte
	Major uint16
	Minor uint16
	Patch uint16
	_     uint16
	Size  uint32
}

// FileTransport stores the record in a file that the driver side picks up.
// Writers replace the file atomically; readers and writers serialize on
// an advisory lock next to it.
type FileTransport struct {
	Path string
}

// NewFileTransport returns a transport for the given record path.
func NewFileTransport(path string) *FileTransport {
	return &FileTransport{Path: path}
}

func (f *FileTransport) lockPath() string { return f.Path + ".lock" }

// Write encodes rec with a version header and replaces the record file.
func (f *FileTransport) Write(rec *layout.Record) error {
	if rec == nil {
		return &IOError{Op: "write", Path: f.Path, Err: errors.New("nil record")}
	}
	ver := settings.CurrentVersion()
	var buf bytes.Buffer
	hdr := fileHeader{Magic: fileMagic, Major: ver.Major, Minor: ver.Minor, Patch: ver.Patch, Size: uint32(layout.Size())}
	if err := binary.Write(&buf, binary.LittleEndian, &hdr); err != nil {
		return &IOError{Op: "write", Path: f.Path, Err: err}
	}
	if err := layout.Encode(&buf, rec); err != nil {
		return &IOError{Op: "write", Path: f.Path, Err: err}
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "write", Path: f.Path, Err: err}
	}
	unlock, err := lockFile(f.lockPath(), true)
	if err != nil {
		return &IOError{Op: "lock", Path: f.lockPath(), Err: err}
	}
	defer unlock()

	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "write", Path: f.Path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: f.Path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: f.Path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: f.Path, Err: err}
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: f.Path, Err: err}
	}
	return nil
}

// Read loads the record file. A missing file yields ErrNoActiveConfig.
func (f *FileTransport) Read() (*layout.Record, error) {
	unlock, err := lockFile(f.lockPath(), false)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &IOError{Op: "read", Path: f.Path, Err: ErrNoActiveConfig}
		}
		return nil, &IOError{Op: "lock", Path: f.lockPath(), Err: err}
	}
	defer unlock()

	file, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &IOError{Op: "read", Path: f.Path, Err: ErrNoActiveConfig}
		}
		return nil, &IOError{Op: "read", Path: f.Path, Err: err}
	}
	defer file.Close()

	rd := bufio.NewReader(file)
	var hdr fileHeader
	if err := binary.Read(rd, binary.LittleEndian, &hdr); err != nil {
		return nil, &IOError{Op: "read", Path: f.Path, Err: fmt.Errorf("read header: %w", err)}
	}
	if hdr.Magic != fileMagic {
		return nil, &IOError{Op: "read", Path: f.Path, Err: errors.New("not a driver record file")}
	}
	stored := settings.SemVer{Major: hdr.Major, Minor: hdr.Minor, Patch: hdr.Patch}
	if !settings.CurrentVersion().Compatible(stored) {
		return nil, &IOError{Op: "read", Path: f.Path, Err: fmt.Errorf("%w: record %s, expected %s", ErrVersionMismatch, stored, settings.Version)}
	}
	if int(hdr.Size) != layout.Size() {
		return nil, &IOError{Op: "read", Path: f.Path, Err: fmt.Errorf("record size %d, expected %d", hdr.Size, layout.Size())}
	}
	rec, err := layout.Decode(io.LimitReader(rd, int64(hdr.Size)))
	if err != nil {
		return nil, &IOError{Op: "read", Path: f.Path, Err: err}
	}
	return rec, nil
}
