package core

// streaming.go frames the input stream into lines for the engine.
//
// Framing rules:
//   - A UTF-8 BOM (0xEF 0xBB 0xBF) at the very start is dropped
//   - Lines end at '\n'; one trailing '\r' is removed
//   - Empty lines are skipped
//   - A final line without a terminator is still returned
//
// Field splitting is not done here. Quotes and escapes pass through as-is.

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readerBufferSize is the initial bufio buffer. Longer lines still work;
// ReadSlice overflow is handled by accumulating.
const readerBufferSize = 64 * 1024

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// LineReader yields the non-empty lines of a stream.
type LineReader struct {
	counter    *CountingReader
	br         *bufio.Reader
	bomChecked bool
	buf        []byte
}

// NewLineReader creates a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	counter := NewCountingReader(r)
	return &LineReader{
		counter: counter,
		br:      bufio.NewReaderSize(counter, readerBufferSize),
	}
}

// Next returns the next non-empty line without its terminator.
// It returns io.EOF once the stream is exhausted.
func (l *LineReader) Next() (string, error) {
	if !l.bomChecked {
		l.bomChecked = true
		if prefix, err := l.br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
			_, _ = l.br.Discard(len(utf8BOM))
		}
	}

	for {
		line, err := l.readLine()
		if len(line) > 0 {
			return line, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// readLine reads one raw line. A non-empty line is returned with a nil
// error even when the stream ended without a terminator.
func (l *LineReader) readLine() (string, error) {
	l.buf = l.buf[:0]
	for {
		chunk, err := l.br.ReadSlice('\n')
		l.buf = append(l.buf, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}

		line := l.buf
		line = bytes.TrimSuffix(line, []byte{'\n'})
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) > 0 {
			return string(line), nil
		}
		if err != nil {
			return "", io.EOF
		}
		return "", nil
	}
}

// BytesRead reports how many bytes have been consumed from the source,
// including read-ahead held in the buffer.
func (l *LineReader) BytesRead() int64 {
	return l.counter.BytesRead
}
