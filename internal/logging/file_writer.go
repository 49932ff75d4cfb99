package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// FileWriter appends to a log file and trims it back to its newest
// five sixths once it grows past the limit.
type FileWriter struct {
	path     string
	file     *os.File
	maxBytes int64
	keep     int64
	mu       sync.Mutex
}

// NewFileWriter opens path for appending. A limit <= 0 disables trimming.
func NewFileWriter(path string, limit int64) (*FileWriter, error) {
	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	w := &FileWriter{path: path, file: file, maxBytes: limit, keep: limit / 6 * 5}
	if err := w.truncateIfNeeded(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("trim log file: %w", err)
	}
	return w, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

// Close closes the underlying file.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *FileWriter) truncateIfNeeded() error {
	if w.maxBytes <= 0 {
		return nil
	}
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= w.maxBytes {
		return nil
	}

	buf := make([]byte, w.keep)
	if _, err := w.file.Seek(size-w.keep, io.SeekStart); err != nil {
		return err
	}
	n, err := io.ReadFull(w.file, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
