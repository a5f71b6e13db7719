//go:build windows

// Package stderr provides a no-op implementation for Windows.
// Windows audio libraries don't produce the same stderr noise as ALSA.
package stderr

import "os"

// Start is a no-op on Windows.
func Start(func(string)) error {
	return nil
}

// Original returns stderr unchanged.
func Original() *os.File {
	return os.Stderr
}

// Stop is a no-op on Windows.
func Stop() {}
