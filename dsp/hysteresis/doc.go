// Package hysteresis implements the stateful magnetization stage of the
// magnetic model.
//
// The integrator does not follow the input directly. It accumulates a
// windowed copy of the input differential, and the window depends on the
// direction of travel: a rising signal is held back just above zero, a
// falling one just below. Integrating those two different branches is what
// opens the transfer curve into a loop.
//
// Per-channel memory lives in a caller-owned State, so channels can be
// processed independently and in parallel.
package hysteresis
