package nbt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// chunkSize bounds the allocation made ahead of data actually arriving.
const chunkSize = 64 * 1024

type reader struct {
	r   io.Reader
	err error
	buf [8]byte
}

func (r *reader) fill(n int) []byte {
	if r.err != nil {
		return nil
	}
	_, r.err = io.ReadFull(r.r, r.buf[:n])
	if r.err != nil {
		return nil
	}
	return r.buf[:n]
}

func (r *reader) readU1() uint8 {
	b := r.fill(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) readU2() uint16 {
	b := r.fill(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *reader) readU4() uint32 {
	b := r.fill(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *reader) readU8() uint64 {
	b := r.fill(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (r *reader) readF4() float32 { return math.Float32frombits(r.readU4()) }
func (r *reader) readF8() float64 { return math.Float64frombits(r.readU8()) }

// readBytes reads exactly n bytes, growing the buffer as data arrives so that
// a bogus length on truncated input does not allocate up front.
func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n <= chunkSize {
		buf := make([]byte, n)
		_, r.err = io.ReadFull(r.r, buf)
		return buf
	}
	buf := make([]byte, 0, chunkSize)
	for len(buf) < n {
		m := min(n-len(buf), chunkSize)
		buf = append(buf, make([]byte, m)...)
		if _, r.err = io.ReadFull(r.r, buf[len(buf)-m:]); r.err != nil {
			return nil
		}
	}
	return buf
}

func (r *reader) discard(n int64) {
	if r.err != nil || n <= 0 {
		return
	}
	var got int64
	got, r.err = io.CopyN(io.Discard, r.r, n)
	if r.err == io.EOF && got < n {
		r.err = io.ErrUnexpectedEOF
	}
}

// failure returns the sticky error wrapped as a format error.
func (r *reader) failure() error {
	if r.err == nil {
		return nil
	}
	if errors.Is(r.err, io.EOF) {
		r.err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %w", ErrFormat, r.err)
}
