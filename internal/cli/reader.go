package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when a read is abandoned because its context ended.
var ErrInputCancelled = errors.New("input canceled")

type line struct {
	err  error
	text string
}

// LineReader reads trimmed lines from an input and gives up when the caller's
// context ends. A single goroutine owns the input, so a line typed after a
// canceled read is delivered to the next ReadLine instead of being lost.
type LineReader struct {
	in    *bufio.Reader
	lines chan line
	start sync.Once
}

// NewLineReader creates a line reader over in.
func NewLineReader(in io.Reader) *LineReader {
	if in == nil {
		panic("reader cannot be nil")
	}
	return &LineReader{
		in:    bufio.NewReader(in),
		lines: make(chan line),
	}
}

func (r *LineReader) pump() {
	defer close(r.lines)
	for {
		text, err := r.in.ReadString('\n')
		if errors.Is(err, io.EOF) && text != "" {
			err = nil
		}
		if err != nil {
			r.lines <- line{err: err}
			return
		}
		r.lines <- line{text: strings.TrimSpace(text)}
	}
}

// ReadLine returns the next line without surrounding whitespace. A final line
// without a trailing newline is returned without error.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case l, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}
