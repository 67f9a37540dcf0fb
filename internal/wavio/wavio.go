// Package wavio reads and writes PCM WAV files as deinterleaved float64
// channels in [-1, 1].
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcmFormat = 1

var (
	// ErrInvalidFile is returned for input that is not a RIFF/WAVE stream.
	ErrInvalidFile = errors.New("wavio: not a valid WAV file")
	// ErrUnsupportedBitDepth is returned for bit depths other than 16, 24
	// and 32.
	ErrUnsupportedBitDepth = errors.New("wavio: unsupported bit depth")
	// ErrUnsupportedFormat is returned for WAV encodings other than integer
	// PCM, such as IEEE float.
	ErrUnsupportedFormat = errors.New("wavio: unsupported sample format")
)

// Audio is a deinterleaved multichannel signal.
type Audio struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// New allocates silent audio with the given shape.
func New(sampleRate, channels, frames int) *Audio {
	a := &Audio{SampleRate: sampleRate, BitDepth: 24, Channels: make([][]float64, channels)}
	for ch := range a.Channels {
		a.Channels[ch] = make([]float64, frames)
	}
	return a
}

// Frames returns the length of the shortest channel.
func (a *Audio) Frames() int {
	if len(a.Channels) == 0 {
		return 0
	}
	n := len(a.Channels[0])
	for _, ch := range a.Channels[1:] {
		n = min(n, len(ch))
	}
	return n
}

// Peak returns the largest absolute sample value.
func (a *Audio) Peak() float64 {
	peak := 0.0
	for _, ch := range a.Channels {
		for _, v := range ch {
			peak = math.Max(peak, math.Abs(v))
		}
	}
	return peak
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Read decodes a PCM WAV stream.
func Read(r io.ReadSeeker) (*Audio, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalidFile
	}
	if d.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, d.WavAudioFormat)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decode: %w", err)
	}

	depth := int(d.BitDepth)
	if !supportedDepth(depth) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, depth)
	}

	channels := int(d.NumChans)
	if channels < 1 {
		return nil, ErrInvalidFile
	}

	frames := len(buf.Data) / channels
	a := New(int(d.SampleRate), channels, frames)
	a.BitDepth = depth

	scale := 1 / fullScale(depth)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			a.Channels[ch][i] = float64(buf.Data[i*channels+ch]) * scale
		}
	}

	return a, nil
}

// WriteFile encodes a to path, creating or truncating the file.
func WriteFile(path string, a *Audio) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, a); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}

// Write encodes a as PCM with a.BitDepth bits. Samples outside [-1, 1] are
// clipped.
func Write(w io.WriteSeeker, a *Audio) error {
	if !supportedDepth(a.BitDepth) {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, a.BitDepth)
	}
	channels := len(a.Channels)
	if channels == 0 || a.SampleRate <= 0 {
		return fmt.Errorf("wavio: need at least one channel and a positive sample rate: %d, %d",
			channels, a.SampleRate)
	}

	frames := a.Frames()
	full := fullScale(a.BitDepth)
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			data[i*channels+ch] = quantize(a.Channels[ch][i], full)
		}
	}

	enc := wav.NewEncoder(w, a.SampleRate, a.BitDepth, channels, pcmFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: a.SampleRate},
		Data:           data,
		SourceBitDepth: a.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}

	return enc.Close()
}

func quantize(v, full float64) int {
	if v != v {
		return 0
	}
	q := math.Round(v * full)
	return int(math.Max(-full, math.Min(full-1, q)))
}

func fullScale(depth int) float64 {
	return float64(int64(1) << (depth - 1))
}

func supportedDepth(depth int) bool {
	return depth == 16 || depth == 24 || depth == 32
}
