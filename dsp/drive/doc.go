// Package drive normalizes saturated signals by a saturated copy of the
// drive gain.
//
// Pushing more gain into a saturation curve raises both the distortion and
// the level. Dividing by curve(drive) keeps a unit-amplitude input at about
// unit amplitude, so drive changes the character of the sound rather than
// its loudness.
package drive
