package wavio

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestWriteReadFile(t *testing.T) {
	for _, depth := range []int{16, 24, 32} {
		a := New(44100, 2, 512)
		a.BitDepth = depth
		for i := range a.Channels[0] {
			a.Channels[0][i] = 0.8 * math.Sin(2*math.Pi*float64(i)/64)
			a.Channels[1][i] = -0.25
		}

		path := filepath.Join(t.TempDir(), "out.wav")
		if err := WriteFile(path, a); err != nil {
			t.Fatalf("%d bit: WriteFile() error = %v", depth, err)
		}

		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("%d bit: ReadFile() error = %v", depth, err)
		}
		if got.SampleRate != 44100 || got.BitDepth != depth || len(got.Channels) != 2 || got.Frames() != 512 {
			t.Fatalf("%d bit: shape rate=%d depth=%d channels=%d frames=%d",
				depth, got.SampleRate, got.BitDepth, len(got.Channels), got.Frames())
		}

		tol := 1 / fullScale(depth)
		for ch := range a.Channels {
			for i, want := range a.Channels[ch] {
				if math.Abs(got.Channels[ch][i]-want) > tol {
					t.Fatalf("%d bit ch %d index %d: got %g want %g", depth, ch, i, got.Channels[ch][i], want)
				}
			}
		}
	}
}

func TestWriteClipsAndSanitizes(t *testing.T) {
	a := New(48000, 1, 4)
	a.BitDepth = 16
	copy(a.Channels[0], []float64{2, -2, math.NaN(), 0.5})

	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := WriteFile(path, a); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	want := []float64{32767.0 / 32768, -1, 0, 0.5}
	for i, w := range want {
		if got.Channels[0][i] != w {
			t.Fatalf("index %d: got %g want %g", i, got.Channels[0][i], w)
		}
	}
}

func TestReadInvalid(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("definitely not a riff header")))
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("Read() error = %v, want ErrInvalidFile", err)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadRejectsFloatFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "float.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const ieeeFloat = 3
	enc := wav.NewEncoder(f, 48000, 32, 1, ieeeFloat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 48000},
		Data:           []int{0, 1 << 20, -(1 << 20), 0},
		SourceBitDepth: 32,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	if _, err := ReadFile(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("ReadFile() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestWriteValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")

	a := New(48000, 1, 8)
	a.BitDepth = 12
	if err := WriteFile(path, a); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Fatalf("WriteFile() error = %v, want ErrUnsupportedBitDepth", err)
	}

	if err := WriteFile(path, &Audio{SampleRate: 48000, BitDepth: 16}); err == nil {
		t.Fatal("expected error for zero channels")
	}
}

func TestFramesAndPeak(t *testing.T) {
	a := &Audio{Channels: [][]float64{{0.1, -0.7, 0.2}, {0.3, 0.4}}}
	if a.Frames() != 2 {
		t.Fatalf("Frames() = %d, want 2", a.Frames())
	}
	if a.Peak() != 0.7 {
		t.Fatalf("Peak() = %g, want 0.7", a.Peak())
	}
	if (&Audio{}).Frames() != 0 {
		t.Fatal("empty audio should have no frames")
	}
}
