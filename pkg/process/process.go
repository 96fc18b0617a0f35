// Package process tracks long-running hydrate processes through PID files,
// so that only one reminder scheduler runs per state directory.
package process

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// IsAlive reports whether a process with the given PID is running.
func IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 checks existence. EPERM still means the process exists.
	err = p.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}

// AlreadyRunningError is returned by Acquire when a live process holds the
// PID file.
type AlreadyRunningError struct {
	PID int
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("already running with PID %d", e.PID)
}

// PIDFile is a PID file at a fixed path.
type PIDFile struct {
	path string
}

// NewPIDFile returns a PIDFile at path.
func NewPIDFile(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file's location.
func (f *PIDFile) Path() string { return f.path }

// Acquire writes the current PID to the file. A file left behind by a dead
// process is replaced.
func (f *PIDFile) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}

	if pid, err := f.Read(); err == nil && pid != os.Getpid() && IsAlive(pid) {
		return &AlreadyRunningError{PID: pid}
	}

	if err := os.WriteFile(f.path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	return nil
}

// Release removes the file if it still names the current process.
func (f *PIDFile) Release() error {
	pid, err := f.Read()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if pid != os.Getpid() {
		return nil
	}
	return os.Remove(f.path)
}

// Read returns the PID stored in the file.
func (f *PIDFile) Read() (int, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}

// Running reports whether the process named by the file is alive, and its
// PID. A missing file means nothing is running.
func (f *PIDFile) Running() (bool, int, error) {
	pid, err := f.Read()
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return IsAlive(pid), pid, nil
}
