//go:build headless

package monitor

import "context"

// Play reports ErrUnavailable; headless builds carry no audio backend.
func Play(_ context.Context, _ Source, opts Options) error {
	if _, err := opts.withDefaults(); err != nil {
		return err
	}
	return ErrUnavailable
}
