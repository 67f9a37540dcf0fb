// Package window generates the cosine-sum analysis windows used by the
// harmonic measurements.
package window
