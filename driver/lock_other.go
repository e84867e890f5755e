//go:build !unix

package driver

import "os"

// lockFile only checks that the lock file is reachable; no advisory
// locking is available on this platform.
func lockFile(path string, exclusive bool) (func(), error) {
	flags := os.O_RDONLY
	if exclusive {
		flags = os.O_RDWR | os.O_CREATE
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, err
	}
	return func() { f.Close() }, nil
}
