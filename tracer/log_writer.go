// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package tracer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// NewLogWriter creates (or truncates) a trace log. Logs whose name ends in
// ".gz" are gzip-compressed.
func NewLogWriter(filename string) (LogWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot create trace log %s: %w", filename, err)
	}

	if strings.HasSuffix(filename, ".gz") {
		gzipWriter := gzip.NewWriter(file)
		return &logWriter{
			buffer:  bufio.NewWriter(gzipWriter),
			closers: []io.Closer{gzipWriter, file},
		}, nil
	}
	return &logWriter{
		buffer:  bufio.NewWriter(file),
		closers: []io.Closer{file},
	}, nil
}

//go:generate mockgen -source log_writer.go -destination log_writer_mock.go -package tracer

// LogWriter persists replayed events.
type LogWriter interface {
	// WriteEvent writes one event line.
	WriteEvent(e Event) error
	// WriteTime writes the start time of a buffer epoch.
	WriteTime(t time.Time) error
	Close() error
}

// WriteBuffer is a wrapper around necessary interfaces for writing data to a file for mocking purposes.
type WriteBuffer interface {
	io.Writer
	Flush() error
}

type logWriter struct {
	buffer  WriteBuffer
	closers []io.Closer
}

func (w *logWriter) WriteEvent(e Event) error {
	if _, err := fmt.Fprintln(w.buffer, e.String()); err != nil {
		return fmt.Errorf("error writing event to buffer: %w", err)
	}
	return nil
}

func (w *logWriter) WriteTime(t time.Time) error {
	if _, err := fmt.Fprintf(w.buffer, "%s%d\n", TimePrefix, t.Unix()); err != nil {
		return fmt.Errorf("error writing epoch time to buffer: %w", err)
	}
	return nil
}

func (w *logWriter) Close() error {
	// the buffer goes first, then the compressor (if any), then the file
	err := w.buffer.Flush()
	for _, c := range w.closers {
		err = errors.Join(err, c.Close())
	}
	return err
}
