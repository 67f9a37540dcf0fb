package core

import "fmt"

// ValidateSampleRate rejects zero, negative and non-finite sample rates.
func ValidateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !IsFinite(sampleRate) {
		return fmt.Errorf("sample rate must be > 0 and finite: %f", sampleRate)
	}
	return nil
}

// ValidateChannels rejects channel counts below one.
func ValidateChannels(channels int) error {
	if channels < 1 {
		return fmt.Errorf("channel count must be >= 1: %d", channels)
	}
	return nil
}
