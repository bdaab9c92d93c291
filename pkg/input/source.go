package input

import (
	"io"
	"time"
)

// ByteSource feeds the decoder one byte at a time.
//
// Next blocks until a byte is available or the stream ends. NextTimeout
// waits at most d; the decoder uses it only to tell a standalone Escape
// press from the start of an escape sequence.
type ByteSource interface {
	Next() (byte, error)
	NextTimeout(d time.Duration) (b byte, ok bool, err error)
}

// readerSource adapts an io.Reader (normally the raw-mode tty) to a
// ByteSource. A single goroutine pumps the reader into a channel; the
// decoder side stays fully synchronous.
type readerSource struct {
	ch  chan byte
	err error // set before ch is closed
}

// NewReaderSource wraps r in a ByteSource. The pump goroutine exits when
// r returns an error (io.EOF included); the error is surfaced by Next
// after the buffered bytes drain.
func NewReaderSource(r io.Reader) ByteSource {
	s := &readerSource{ch: make(chan byte, 256)}
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				s.ch <- b
			}
			if err != nil {
				s.err = err
				close(s.ch)
				return
			}
		}
	}()
	return s
}

func (s *readerSource) Next() (byte, error) {
	b, ok := <-s.ch
	if !ok {
		return 0, s.err
	}
	return b, nil
}

func (s *readerSource) NextTimeout(d time.Duration) (byte, bool, error) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case b, ok := <-s.ch:
		if !ok {
			return 0, false, s.err
		}
		return b, true, nil
	case <-t.C:
		return 0, false, nil
	}
}

// Bytes returns an in-memory ByteSource over data. NextTimeout reports
// no byte once the data runs out, and Next returns io.EOF, so trailing
// lone escapes decode immediately. Useful in tests.
func Bytes(data []byte) ByteSource {
	return &sliceSource{data: data}
}

type sliceSource struct {
	data []byte
	i    int
}

func (s *sliceSource) Next() (byte, error) {
	if s.i >= len(s.data) {
		return 0, io.EOF
	}
	b := s.data[s.i]
	s.i++
	return b, nil
}

func (s *sliceSource) NextTimeout(time.Duration) (byte, bool, error) {
	if s.i >= len(s.data) {
		return 0, false, nil
	}
	b := s.data[s.i]
	s.i++
	return b, true, nil
}
