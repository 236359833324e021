package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMultiline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"sentinel", "line one\nline two\nEOF\nignored\n", "line one\nline two"},
		{"lower-case sentinel", "a\n  eof  \nb\n", "a"},
		{"end of input", "a\nb", "a\nb"},
		{"trims surrounding blank lines", "\n\n  hello  \n\nEOF\n", "hello"},
		{"keeps inner blank lines", "a\n\nb\nEOF\n", "a\n\nb"},
		{"empty", "", ""},
		{"only sentinel", "EOF\n", ""},
		{"sentinel inside a line is text", "not EOF yet\nEOF\n", "not EOF yet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadMultiline(strings.NewReader(tt.input), Sentinel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestReadMultiline_ReadError(t *testing.T) {
	_, err := ReadMultiline(failingReader{}, Sentinel)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestLineSource(t *testing.T) {
	ctx := context.Background()
	src := startLines(ctx, strings.NewReader("one\r\ntwo\n"))

	line, err := src.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one", line)

	line, err = src.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", line)

	_, err = src.next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineSource_ReadErrorIsReported(t *testing.T) {
	ctx := context.Background()
	src := startLines(ctx, failingReader{})

	_, err := src.next(ctx)
	require.ErrorIs(t, err, ErrInput)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestLineSource_LineTooLong(t *testing.T) {
	ctx := context.Background()
	input := "short\n" + strings.Repeat("x", maxLineSize+1) + "\n"
	src := startLines(ctx, strings.NewReader(input))

	line, err := src.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "short", line)

	_, err = src.next(ctx)
	require.ErrorIs(t, err, ErrInput)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestRun_InputFailureEndsRun(t *testing.T) {
	var out strings.Builder
	l := &Loop{In: failingReader{}, Out: &out}

	err := l.Run(context.Background())
	require.ErrorIs(t, err, ErrInput)
	assert.Equal(t, 0, l.Turns())
}

func TestLineSource_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	src := startLines(ctx, pr)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := src.next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
