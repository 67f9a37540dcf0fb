package magnetic

import (
	"math"
	"testing"
)

func TestParametersClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Parameters
		want Parameters
	}{
		{
			name: "defaults unchanged",
			in:   DefaultParameters(),
			want: DefaultParameters(),
		},
		{
			name: "upper bounds",
			in:   Parameters{PreGainDB: 30, PostGainDB: math.Inf(1), Squareness: 4, Coercitivity: 1.5, Mix: 9},
			want: Parameters{PreGainDB: 24, PostGainDB: 24, Squareness: 1, Coercitivity: 1, Mix: 1},
		},
		{
			name: "lower bounds",
			in:   Parameters{PreGainDB: -200, PostGainDB: -61, Squareness: -1, Coercitivity: -0.1, Mix: -0.5},
			want: Parameters{PreGainDB: -60, PostGainDB: -60, Squareness: 0, Coercitivity: 0, Mix: 0},
		},
		{
			name: "stage controls",
			in:   Parameters{Mix: 1, Bias: -3, Crossover: 2, Erase: -1, Cut: 0.25},
			want: Parameters{Mix: 1, Bias: -1, Crossover: 1, Erase: 0, Cut: 0.25},
		},
		{
			name: "nan falls back to defaults",
			in: Parameters{
				PreGainDB: math.NaN(), PostGainDB: math.NaN(), Squareness: math.NaN(),
				Coercitivity: math.NaN(), Mix: math.NaN(), Bias: math.NaN(),
				Crossover: math.NaN(), Erase: math.NaN(), Cut: math.NaN(),
			},
			want: DefaultParameters(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(); got != tt.want {
				t.Fatalf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGainLinkString(t *testing.T) {
	tests := []struct {
		link GainLink
		name string
	}{
		{link: GainLinkCoupled, name: "coupled"},
		{link: GainLinkNormalized, name: "normalized"},
		{link: GainLink(5), name: "GainLink(5)"},
	}

	for _, tt := range tests {
		if got := tt.link.String(); got != tt.name {
			t.Fatalf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestParseGainLink(t *testing.T) {
	for _, link := range []GainLink{GainLinkCoupled, GainLinkNormalized} {
		got, err := ParseGainLink(link.String())
		if err != nil || got != link {
			t.Fatalf("ParseGainLink(%q) = %v, %v", link.String(), got, err)
		}
	}
	if _, err := ParseGainLink("inverse"); err == nil {
		t.Fatal("expected error for unknown link")
	}
}
