package monitor

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
	"time"
)

func countdown(blocks int, value float64) Source {
	return func(buffers [][]float64) int {
		if blocks == 0 {
			return 0
		}
		blocks--
		for ch, buf := range buffers {
			for i := range buf {
				buf[i] = value * float64(ch+1)
			}
		}
		return len(buffers[0])
	}
}

func TestReaderInterleavesFloat32(t *testing.T) {
	r := newReader(countdown(2, 0.25), 2, 3)

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(data) != 2*3*2*bytesPerSample {
		t.Fatalf("read %d bytes, want %d", len(data), 2*3*2*bytesPerSample)
	}

	for i := 0; i < len(data)/bytesPerSample; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(data[i*bytesPerSample:]))
		want := float32(0.25)
		if i%2 == 1 {
			want = 0.5
		}
		if got != want {
			t.Fatalf("sample %d = %g, want %g", i, got, want)
		}
	}
	if r.Frames() != 6 {
		t.Fatalf("Frames() = %d, want 6", r.Frames())
	}
}

func TestReaderSmallReadsAndClipping(t *testing.T) {
	r := newReader(countdown(1, 3), 1, 4)

	p := make([]byte, 3)
	var all []byte
	for {
		n, err := r.Read(p)
		all = append(all, p[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}

	if len(all) != 4*bytesPerSample {
		t.Fatalf("read %d bytes, want 16", len(all))
	}
	if v := math.Float32frombits(binary.LittleEndian.Uint32(all)); v != 1 {
		t.Fatalf("out-of-range sample should clip to 1, got %g", v)
	}
}

func TestReaderIgnoresOverlongSource(t *testing.T) {
	r := newReader(func([][]float64) int { return 1000 }, 1, 2)
	p := make([]byte, 64)
	n, err := r.Read(p)
	if err != nil || n != 64 {
		t.Fatalf("Read() = %d, %v", n, err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts, err := Options{SampleRate: 48000, Channels: 2}.withDefaults()
	if err != nil {
		t.Fatalf("withDefaults() error = %v", err)
	}
	if opts.BlockSize != defaultBlockSize || opts.BufferSize != 100*time.Millisecond {
		t.Fatalf("defaults not applied: %+v", opts)
	}

	for _, bad := range []Options{
		{SampleRate: 0, Channels: 2},
		{SampleRate: 48000, Channels: 0},
		{SampleRate: 48000, Channels: 6},
		{SampleRate: 48000, Channels: 1, BlockSize: -1},
	} {
		if _, err := bad.withDefaults(); err == nil {
			t.Fatalf("expected error for %+v", bad)
		}
	}
}
