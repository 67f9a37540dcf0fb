package magnetic

import (
	"fmt"

	"github.com/cwbudde/algo-hysteresis/dsp/core"
	"github.com/cwbudde/algo-hysteresis/dsp/saturation"
)

const (
	// MinGainDB is the lower bound of the pre- and post-gain.
	MinGainDB = -60.0
	// MaxGainDB is the upper bound of the pre- and post-gain.
	MaxGainDB = 24.0
)

// Parameters is a host snapshot of the engine controls. The zero values of
// Bias, Crossover, Erase and Cut leave the wet path untouched.
type Parameters struct {
	PreGainDB    float64 // drive into the magnetic stage
	PostGainDB   float64 // makeup gain applied to the wet path
	Squareness   float64 // knee hardness, 0 soft to 1 near-hard
	Coercitivity float64 // loop width, 0 disables hysteresis
	Mix          float64 // 0 dry, 1 wet

	Bias      float64 // static magnetization offset, -1 to 1; adds even harmonics
	Crossover float64 // dead band on the input differential, 0 to 1
	Erase     float64 // self-erasure slew limit on the wet path, 0 to 1
	Cut       float64 // post-EQ treble loss, 0 to 1
}

// DefaultParameters returns the neutral parameter set.
func DefaultParameters() Parameters {
	return Parameters{
		PreGainDB:    0,
		PostGainDB:   0,
		Squareness:   saturation.DefaultSquareness,
		Coercitivity: 0,
		Mix:          1,
	}
}

// Clamp returns p with every field limited to its valid range. NaN fields
// fall back to their defaults.
func (p Parameters) Clamp() Parameters {
	d := DefaultParameters()

	return Parameters{
		PreGainDB:    core.ClampOr(p.PreGainDB, MinGainDB, MaxGainDB, d.PreGainDB),
		PostGainDB:   core.ClampOr(p.PostGainDB, MinGainDB, MaxGainDB, d.PostGainDB),
		Squareness:   core.ClampOr(p.Squareness, 0, 1, d.Squareness),
		Coercitivity: core.ClampOr(p.Coercitivity, 0, 1, d.Coercitivity),
		Mix:          core.ClampOr(p.Mix, 0, 1, d.Mix),
		Bias:         core.ClampOr(p.Bias, -1, 1, d.Bias),
		Crossover:    core.ClampOr(p.Crossover, 0, 1, d.Crossover),
		Erase:        core.ClampOr(p.Erase, 0, 1, d.Erase),
		Cut:          core.ClampOr(p.Cut, 0, 1, d.Cut),
	}
}

// GainLink selects how the wet path level follows the pre-gain.
type GainLink int

const (
	// GainLinkCoupled scales the wet path by Control(pre)/pre on top of the
	// normalizer, so the two together divide by the pre-gain. Signals below
	// the knee then leave the wet path at their input level for any
	// pre-gain, and raising the pre-gain only adds saturation.
	GainLinkCoupled GainLink = iota
	// GainLinkNormalized relies on the drive normalizer alone: the wet path
	// is divided by the saturated pre-gain, so quiet signals get louder as
	// the pre-gain rises.
	GainLinkNormalized
)

func (l GainLink) String() string {
	switch l {
	case GainLinkCoupled:
		return "coupled"
	case GainLinkNormalized:
		return "normalized"
	default:
		return fmt.Sprintf("GainLink(%d)", int(l))
	}
}

// ParseGainLink maps a name returned by String back to its mode.
func ParseGainLink(name string) (GainLink, error) {
	for _, l := range []GainLink{GainLinkCoupled, GainLinkNormalized} {
		if l.String() == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("magnetic gain link is unknown: %q", name)
}

func (l GainLink) valid() bool {
	return l == GainLinkCoupled || l == GainLinkNormalized
}
