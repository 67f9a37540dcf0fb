package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/cwbudde/algo-hysteresis/dsp/magnetic"
	"github.com/cwbudde/algo-hysteresis/internal/monitor"
	"github.com/cwbudde/algo-hysteresis/internal/wavio"
)

type playCmd struct {
	Input     string        `arg:"" type:"existingfile" help:"Input WAV file (mono or stereo)."`
	Repeat    bool          `short:"r" help:"Loop the file until interrupted."`
	BlockSize int           `name:"block-size" default:"512" help:"Processing block size in frames."`
	Buffer    time.Duration `default:"100ms" help:"Output device buffer."`

	Engine engineFlags `embed:""`
}

func (c *playCmd) Run(e *env) error {
	in, err := wavio.ReadFile(c.Input)
	if err != nil {
		return err
	}
	if len(in.Channels) > 2 {
		return fmt.Errorf("play supports mono and stereo files: %d channels", len(in.Channels))
	}

	eng, err := c.Engine.newEngine(float64(in.SampleRate), len(in.Channels), magnetic.WithBlockSize(c.BlockSize))
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e.log.Info("playing", "path", c.Input, "rate", in.SampleRate, "channels", len(in.Channels),
		"seconds", float64(in.Frames())/float64(in.SampleRate), "repeat", c.Repeat)

	var lastReport int64
	err = monitor.Play(ctx, fileSource(eng, in.Channels, c.Repeat), monitor.Options{
		SampleRate: in.SampleRate,
		Channels:   len(in.Channels),
		BlockSize:  c.BlockSize,
		BufferSize: c.Buffer,
		Progress: func(frames int64) {
			if frames-lastReport >= int64(in.SampleRate) {
				lastReport = frames
				e.log.Debug("progress", "seconds", float64(frames)/float64(in.SampleRate))
			}
		},
	})
	if errors.Is(err, context.Canceled) {
		e.log.Info("stopped")
		return nil
	}
	if n := eng.SanitizedSamples(); n > 0 {
		e.log.Warn("replaced non-finite input samples", "count", n)
	}

	return err
}

// fileSource streams channels through eng block by block, from the start
// again when repeat is set.
func fileSource(eng *magnetic.Engine, channels [][]float64, repeat bool) monitor.Source {
	frames := 0
	if len(channels) > 0 {
		frames = len(channels[0])
	}
	pos := 0

	return func(buffers [][]float64) int {
		if frames == 0 {
			return 0
		}
		if pos >= frames {
			if !repeat {
				return 0
			}
			pos = 0
		}

		n := min(len(buffers[0]), frames-pos)
		for ch := range buffers {
			copy(buffers[ch][:n], channels[min(ch, len(channels)-1)][pos:pos+n])
		}
		eng.Process(buffers, n)
		pos += n

		return n
	}
}
