package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInput wraps a failure reading the session input, such as a line longer
// than the scanner limit.
var ErrInput = errors.New("read input")

// Sentinel ends a multi-line prompt when it appears alone on a line.
const Sentinel = "EOF"

const maxLineSize = 1 << 20

// ReadMultiline reads lines from r until a line equal to sentinel (trimmed,
// case-insensitive) or end of input, and returns the trimmed text.
func ReadMultiline(r io.Reader, sentinel string) (string, error) {
	sc := newScanner(r)
	return collect(func() (string, error) {
		if sc.Scan() {
			return sc.Text(), nil
		}
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}, sentinel)
}

// collect gathers lines from next until the sentinel or io.EOF.
func collect(next func() (string, error), sentinel string) (string, error) {
	var lines []string
	for {
		line, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if strings.EqualFold(strings.TrimSpace(line), sentinel) {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return sc
}

// lineSource feeds input lines through a channel so reads can be abandoned
// when the context ends.
type lineSource struct {
	lines <-chan string
	// err is set before lines is closed.
	err error
}

func startLines(ctx context.Context, r io.Reader) *lineSource {
	ch := make(chan string)
	src := &lineSource{lines: ch}
	go func() {
		defer close(ch)
		sc := newScanner(r)
		for sc.Scan() {
			select {
			case ch <- strings.TrimRight(sc.Text(), "\r"):
			case <-ctx.Done():
				return
			}
		}
		src.err = sc.Err()
	}()
	return src
}

// next returns the next line, io.EOF when input is exhausted, an ErrInput
// when reading failed, or the context error.
func (s *lineSource) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			if s.err != nil {
				return "", fmt.Errorf("%w: %w", ErrInput, s.err)
			}
			return "", io.EOF
		}
		return line, nil
	}
}
