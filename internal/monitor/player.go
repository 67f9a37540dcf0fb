//go:build !headless

package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

const pollInterval = 20 * time.Millisecond

// Play streams src to the default output device and blocks until the
// source is exhausted and drained, or ctx is cancelled.
func Play(ctx context.Context, src Source, opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: opts.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   opts.BufferSize,
	})
	if err != nil {
		return fmt.Errorf("monitor: open device: %w", err)
	}
	<-ready

	r := newReader(src, opts.Channels, opts.BlockSize)
	player := otoCtx.NewPlayer(r)
	defer player.Close()

	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
			if opts.Progress != nil {
				opts.Progress(r.Frames())
			}
		}
	}

	if opts.Progress != nil {
		opts.Progress(r.Frames())
	}

	return player.Err()
}
