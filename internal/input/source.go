// Package input acquires the hook event document from stdin.
package input

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"

	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

var (
	// ErrUnreadable is returned when stdin cannot be read.
	ErrUnreadable = errors.New("hook input unreadable")

	// ErrNotReady is returned by Await when the document did not arrive in time.
	ErrNotReady = errors.New("hook input not ready")
)

// maxInputBytes bounds the event document size.
const maxInputBytes = 8 << 20

// Source yields the raw and decoded event document. Both methods read at
// most once; later calls return the cached result.
type Source interface {
	Raw() ([]byte, error)
	Input() (*hook.Input, error)
}

// Reader is a Source over an io.Reader.
type Reader struct {
	r           io.Reader
	interactive bool

	readOnce sync.Once
	raw      []byte
	readErr  error

	decodeOnce sync.Once
	in         *hook.Input
	decodeErr  error
}

// FromStdin decides once whether stdin is a terminal. A terminal is
// treated as empty input so the hook never blocks waiting for a keyboard.
func FromStdin() *Reader {
	r := FromReader(os.Stdin)
	r.interactive = term.IsTerminal(int(os.Stdin.Fd()))

	return r
}

// FromReader wraps r.
func FromReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// FromBytes wraps an in-memory document.
func FromBytes(data []byte) *Reader {
	return &Reader{r: bytes.NewReader(data)}
}

// Interactive reports whether stdin is a terminal.
func (s *Reader) Interactive() bool {
	return s.interactive
}

// Raw returns the document bytes.
func (s *Reader) Raw() ([]byte, error) {
	s.readOnce.Do(func() {
		if s.interactive || s.r == nil {
			return
		}

		data, err := io.ReadAll(io.LimitReader(s.r, maxInputBytes))
		if err != nil {
			s.readErr = errors.CombineErrors(ErrUnreadable, err)

			return
		}

		s.raw = data
	})

	return s.raw, s.readErr
}

// Input returns the decoded and validated document.
func (s *Reader) Input() (*hook.Input, error) {
	s.decodeOnce.Do(func() {
		raw, err := s.Raw()
		if err != nil {
			s.decodeErr = err

			return
		}

		s.in, s.decodeErr = hook.DecodeInput(raw)
	})

	return s.in, s.decodeErr
}

// Await returns src.Input() if it completes within wait, otherwise
// ErrNotReady. The pending read is left running; a panic inside it is
// re-raised on the caller's goroutine.
func Await(src Source, wait time.Duration) (*hook.Input, error) {
	type outcome struct {
		in        *hook.Input
		err       error
		recovered any
	}

	done := make(chan outcome, 1)

	go func() {
		var o outcome

		defer func() {
			o.recovered = recover()
			done <- o
		}()

		o.in, o.err = src.Input()
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case o := <-done:
		if o.recovered != nil {
			panic(o.recovered)
		}

		return o.in, o.err

	case <-timer.C:
		return nil, errors.Wrapf(ErrNotReady, "nothing read within %s", wait)
	}
}
