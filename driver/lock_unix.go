//go:build unix

package driver

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockFile takes an advisory flock on path. Shared locks are used for
// reading and never create the lock file.
func lockFile(path string, exclusive bool) (func(), error) {
	flags := os.O_RDONLY
	how := unix.LOCK_SH
	if exclusive {
		flags = os.O_RDWR | os.O_CREATE
		how = unix.LOCK_EX
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), how); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}, nil
}
