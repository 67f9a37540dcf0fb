// Package monitor plays a rendered stream on the default audio device.
package monitor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"
)

const (
	defaultBlockSize  = 512
	defaultBufferSize = 100 * time.Millisecond
	bytesPerSample    = 4
)

// ErrUnavailable is returned by Play in builds without an audio backend.
var ErrUnavailable = errors.New("monitor: audio output not available in headless builds")

// Source renders the next block into buffers, one slice per channel, and
// returns the number of frames written. Returning 0 ends the stream.
type Source func(buffers [][]float64) int

// Options configures playback.
type Options struct {
	SampleRate int
	Channels   int
	BlockSize  int           // frames requested from the Source per call
	BufferSize time.Duration // device buffer, trades latency for safety
	// Progress, if set, is called from the playback loop with the number of
	// frames rendered so far.
	Progress func(frames int64)
}

func (o Options) withDefaults() (Options, error) {
	if o.SampleRate <= 0 {
		return o, fmt.Errorf("monitor: sample rate must be > 0: %d", o.SampleRate)
	}
	if o.Channels < 1 || o.Channels > 2 {
		return o, fmt.Errorf("monitor: channel count must be 1 or 2: %d", o.Channels)
	}
	if o.BlockSize == 0 {
		o.BlockSize = defaultBlockSize
	}
	if o.BlockSize < 0 {
		return o, fmt.Errorf("monitor: block size must be > 0: %d", o.BlockSize)
	}
	if o.BufferSize <= 0 {
		o.BufferSize = defaultBufferSize
	}
	return o, nil
}

// reader adapts a Source to interleaved float32 little-endian PCM.
type reader struct {
	src     Source
	buffers [][]float64
	scratch []byte
	pending []byte
	done    bool
	frames  atomic.Int64
}

func newReader(src Source, channels, blockSize int) *reader {
	r := &reader{
		src:     src,
		buffers: make([][]float64, channels),
		scratch: make([]byte, channels*blockSize*bytesPerSample),
	}
	for ch := range r.buffers {
		r.buffers[ch] = make([]float64, blockSize)
	}
	return r
}

// Read implements io.Reader.
func (r *reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.pending) == 0 && (r.done || !r.fill()) {
			r.done = true
			break
		}
		c := copy(p[n:], r.pending)
		r.pending = r.pending[c:]
		n += c
	}

	if n == 0 && r.done {
		return 0, io.EOF
	}
	return n, nil
}

// Frames returns the number of frames rendered so far.
func (r *reader) Frames() int64 { return r.frames.Load() }

func (r *reader) fill() bool {
	frames := min(r.src(r.buffers), len(r.buffers[0]))
	if frames <= 0 {
		return false
	}

	channels := len(r.buffers)
	out := r.scratch[:frames*channels*bytesPerSample]
	for i := 0; i < frames; i++ {
		for ch, buf := range r.buffers {
			v := float32(math.Max(-1, math.Min(1, buf[i])))
			binary.LittleEndian.PutUint32(out[(i*channels+ch)*bytesPerSample:], math.Float32bits(v))
		}
	}

	r.pending = out
	r.frames.Add(int64(frames))
	return true
}
