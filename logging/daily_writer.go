package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// dailyWriter appends to <dir>/<component>-<YYYY-MM-DD>.log and moves to a
// new file the first time it writes on a new local calendar day. The file is
// opened lazily so that commands which never log never create one.
type dailyWriter struct {
	mu        sync.Mutex
	dir       string
	component string
	now       func() time.Time

	day    string
	writer io.WriteCloser
}

func newDailyWriter(dir, component string) *dailyWriter {
	return &dailyWriter{
		dir:       dir,
		component: component,
		now:       time.Now,
	}
}

// Write implements the io.Writer interface.
func (w *dailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	writer, err := w.current()
	if err != nil {
		return 0, err
	}
	return writer.Write(p)
}

// Close implements the io.Closer interface.
func (w *dailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer == nil {
		return nil
	}
	err := w.writer.Close()
	w.writer = nil
	w.day = ""
	return err
}

// Path returns the file the next write goes to.
func (w *dailyWriter) Path() string {
	return w.pathFor(w.now().Format("2006-01-02"))
}

func (w *dailyWriter) pathFor(day string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.log", w.component, day))
}

func (w *dailyWriter) current() (io.Writer, error) {
	day := w.now().Format("2006-01-02")
	if w.writer != nil && day == w.day {
		return w.writer, nil
	}

	if w.writer != nil {
		w.writer.Close()
		w.writer = nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(w.pathFor(day), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	w.writer = file
	w.day = day
	return file, nil
}
