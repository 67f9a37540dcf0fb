package main

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-hysteresis/dsp/magnetic"
	"github.com/cwbudde/algo-hysteresis/internal/cli"
	"github.com/cwbudde/algo-hysteresis/internal/wavio"
	"github.com/cwbudde/algo-hysteresis/measure/level"
)

type renderCmd struct {
	Input     string `arg:"" type:"existingfile" help:"Input WAV file."`
	Output    string `arg:"" type:"path" help:"Output WAV file."`
	BitDepth  int    `name:"bit-depth" default:"0" help:"Output bit depth (16, 24, 32); 0 keeps the input depth."`
	BlockSize int    `name:"block-size" default:"512" help:"Processing block size in frames."`

	Engine engineFlags `embed:""`
}

func (c *renderCmd) Run(e *env) error {
	start := time.Now()

	in, err := wavio.ReadFile(c.Input)
	if err != nil {
		return err
	}
	e.log.Debug("read input", "path", c.Input, "rate", in.SampleRate, "channels", len(in.Channels),
		"frames", in.Frames(), "bits", in.BitDepth)

	eng, err := c.Engine.newEngine(float64(in.SampleRate), len(in.Channels), magnetic.WithBlockSize(c.BlockSize))
	if err != nil {
		return err
	}
	defer eng.Close()

	before := channelLevels(in.Channels)
	render(eng, in.Channels, in.Frames(), c.BlockSize)
	after := channelLevels(in.Channels)

	if n := eng.SanitizedSamples(); n > 0 {
		e.log.Warn("replaced non-finite input samples", "count", n)
	}

	if c.BitDepth != 0 {
		in.BitDepth = c.BitDepth
	}
	if err := wavio.WriteFile(c.Output, in); err != nil {
		return err
	}

	e.log.Info("rendered", "output", c.Output, "elapsed", time.Since(start))

	cli.PrintKV(e.out, "Curve:", c.Engine.Curve)
	cli.PrintKV(e.out, "Frames:", fmt.Sprintf("%d @ %d Hz", in.Frames(), in.SampleRate))
	fmt.Fprint(e.out, levelTable(before, after))

	return nil
}

func channelLevels(channels [][]float64) []level.Level {
	out := make([]level.Level, len(channels))
	for ch, buf := range channels {
		out[ch] = level.Measure(buf)
	}
	return out
}

func levelTable(before, after []level.Level) string {
	rows := make([][]string, 0, len(before))
	for ch := range before {
		in, out := before[ch], after[ch]
		rows = append(rows, []string{
			fmt.Sprintf("%d", ch+1),
			formatDB(in.Peak_dB), formatDB(out.Peak_dB),
			formatDB(in.RMS_dB), formatDB(out.RMS_dB),
			formatDB(out.CrestFactor_dB),
			fmt.Sprintf("%d", out.Clipped),
		})
	}

	return cli.Table([]string{"Ch", "Peak in", "Peak out", "RMS in", "RMS out", "Crest out", "Clipped"}, rows)
}

func formatDB(db float64) string {
	if math.IsInf(db, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%.2f dB", db)
}

// render processes buffers in place in host-sized blocks.
func render(eng *magnetic.Engine, buffers [][]float64, frames, blockSize int) {
	views := make([][]float64, len(buffers))
	for off := 0; off < frames; off += blockSize {
		n := min(blockSize, frames-off)
		for ch, buf := range buffers {
			views[ch] = buf[off : off+n]
		}
		eng.Process(views, n)
	}
}
