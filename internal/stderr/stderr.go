//go:build !windows

// Package stderr captures output from C audio libraries (ALSA, minimp3)
// that write directly to file descriptor 2, bypassing Go's os.Stderr.
// Captured lines are handed to a callback so they can go through the
// structured logger instead of interleaving with it.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"
)

var (
	origStderr int
	origFile   *os.File
	pipeRead   *os.File
	pipeWrite  *os.File
	started    bool
)

// Start redirects fd 2 into a pipe and invokes handle for every
// captured line. Must be called before any C library initialization.
// The program can continue without capture if setup fails; library
// noise then goes to the terminal unfiltered.
func Start(handle func(line string)) error {
	if started {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	origStderr, err = syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	err = syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd()))
	if err != nil {
		syscall.Close(origStderr)
		r.Close()
		w.Close()
		return err
	}

	origFile = os.NewFile(uintptr(origStderr), "stderr")
	pipeRead = r
	pipeWrite = w
	started = true

	go func() {
		scanner := bufio.NewScanner(pipeRead)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" && handle != nil {
				handle(line)
			}
		}
	}()

	return nil
}

// Original returns the saved stderr so loggers and fatal errors can
// still reach the terminal while capture is active. Returns os.Stderr
// when capture is not running.
func Original() *os.File {
	if origFile != nil {
		return origFile
	}
	return os.Stderr
}

// Stop restores the original stderr. Should be called on program exit.
func Stop() {
	if !started {
		return
	}

	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)

	pipeWrite.Close()
	pipeRead.Close()

	origFile = nil
	started = false
}
