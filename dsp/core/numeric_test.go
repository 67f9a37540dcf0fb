package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClampOr(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{name: "nan", value: math.NaN(), want: 0.5},
		{name: "+inf", value: math.Inf(1), want: 1},
		{name: "-inf", value: math.Inf(-1), want: 0},
		{name: "inside", value: 0.25, want: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampOr(tt.value, 0, 1, 0.5); got != tt.want {
				t.Fatalf("ClampOr() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := Sanitize(v); got != 0 {
			t.Fatalf("Sanitize(%v) = %v, want 0", v, got)
		}
		if IsFinite(v) {
			t.Fatalf("IsFinite(%v) = true", v)
		}
	}
	if got := Sanitize(-0.75); got != -0.75 {
		t.Fatalf("Sanitize(-0.75) = %v", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if DBToLinear(0) != 1 {
		t.Fatalf("DBToLinear(0) = %v, want 1", DBToLinear(0))
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestOnePoleCoefficient(t *testing.T) {
	a := OnePoleCoefficient(48000, 5)
	if a <= 0.999 || a >= 1 {
		t.Fatalf("OnePoleCoefficient(48000, 5) = %v, want in (0.999, 1)", a)
	}
	if OnePoleCoefficient(48000, 0) != 1 {
		t.Fatal("zero corner should disable decay")
	}
	if OnePoleCoefficient(96000, 5) <= a {
		t.Fatal("higher sample rate should decay less per sample")
	}
}

func TestValidate(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := ValidateSampleRate(sr); err == nil {
			t.Fatalf("expected error for sample rate %v", sr)
		}
	}
	if err := ValidateSampleRate(44100); err != nil {
		t.Fatalf("ValidateSampleRate(44100) error = %v", err)
	}
	if err := ValidateChannels(0); err == nil {
		t.Fatal("expected error for zero channels")
	}
	if err := ValidateChannels(2); err != nil {
		t.Fatalf("ValidateChannels(2) error = %v", err)
	}
}
