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
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Entry is one line of a trace log: either an event or an epoch time marker.
type Entry struct {
	Time   time.Time
	Event  Event
	IsTime bool
}

func (e Entry) String() string {
	if e.IsTime {
		return fmt.Sprintf("%s%d", TimePrefix, e.Time.Unix())
	}
	return e.Event.String()
}

// NewLogReader opens a trace log. Compressed logs are detected by content.
func NewLogReader(filename string) (LogReader, error) {
	stat, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("could not stat file: %s, does it exist? %w", filename, err)
	}
	if stat.IsDir() {
		return nil, errors.New("given path to trace log is a directory")
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open trace log: %s, %w", filename, err)
	}

	reader := &logReader{closers: []io.Closer{file}}
	buffered := bufio.NewReader(file)
	magic, _ := buffered.Peek(len(gzipMagic))
	if string(magic) == string(gzipMagic) {
		gzipReader, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, errors.Join(
				errors.Wrapf(err, "could not create gzip reader for trace log %s", filename),
				file.Close(),
			)
		}
		reader.closers = append([]io.Closer{gzipReader}, reader.closers...)
		reader.scanner = bufio.NewScanner(gzipReader)
	} else {
		reader.scanner = bufio.NewScanner(buffered)
	}
	return reader, nil
}

// LogReader iterates over the entries of a trace log.
type LogReader interface {
	// Next returns the next entry or io.EOF once the log is exhausted.
	Next() (Entry, error)
	Close() error
}

type logReader struct {
	scanner *bufio.Scanner
	closers []io.Closer
	line    int
}

func (r *logReader) Next() (Entry, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}
		entry, err := ParseLine(text)
		if err != nil {
			return Entry{}, errors.Wrapf(err, "line %d", r.line)
		}
		return entry, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Entry{}, errors.Wrap(err, "cannot read trace log")
	}
	return Entry{}, io.EOF
}

func (r *logReader) Close() error {
	var err error
	for _, c := range r.closers {
		err = errors.Join(err, c.Close())
	}
	return err
}

// ReadAll collects every remaining entry of the log.
func ReadAll(r LogReader) ([]Entry, error) {
	var entries []Entry
	for {
		entry, err := r.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
}

// ParseLine decodes a single trace log line.
func ParseLine(line string) (Entry, error) {
	if rest, ok := strings.CutPrefix(line, TimePrefix); ok {
		secs, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Entry{}, errors.Wrapf(err, "invalid epoch time %q", rest)
		}
		return Entry{Time: time.Unix(secs, 0), IsTime: true}, nil
	}

	parts := strings.Split(line, ":")
	if len(parts) != 4 {
		return Entry{}, errors.Newf("malformed event %q; expected 4 fields, got %d", line, len(parts))
	}

	var e Event
	switch parts[0] {
	case ReadPrefix:
		e.Kind = Read
	case WritePrefix:
		e.Kind = Write
	default:
		return Entry{}, errors.Newf("unknown event kind %q", parts[0])
	}

	seq, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "invalid sequence id %q", parts[1])
	}
	addr, err := strconv.ParseUint(parts[2], 0, 64)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "invalid address %q", parts[2])
	}
	value, err := strconv.ParseInt(parts[3], 10, 32)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "invalid value %q", parts[3])
	}
	e.Seq = int32(seq)
	e.Addr = addr
	e.Value = int32(value)
	return Entry{Event: e}, nil
}
