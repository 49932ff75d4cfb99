// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/rpggio/punchclock/internal/config"
)

// New returns a logger writing to w, or to the configured log file when
// cfg.Path is set. The returned closer releases the file and is never nil.
func New(cfg config.LogConfig, w io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var closer io.Closer = nopCloser{}
	if cfg.Path != "" {
		limit := int64(cfg.MaxSizeMB) * 1024 * 1024
		fw, err := NewFileWriter(cfg.Path, limit)
		if err != nil {
			return nil, nil, err
		}
		w = fw
		closer = fw
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
