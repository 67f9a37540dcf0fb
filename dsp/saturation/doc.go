// Package saturation provides the memoryless saturation curves of the
// magnetic model.
//
// Every curve maps the real line into the open interval (-1, 1), is odd and
// monotonically non-decreasing, and flattens out as |x| grows. A squareness
// value in [0, 1] continuously moves the knee from a gently rounded shape to
// a near hard clip, so automating it never steps.
//
// Curves:
//   - CurveHyperbolic: generalized tanh.
//   - CurveMetalA: algebraic sigmoid, slowest approach to saturation.
//   - CurveMetalB: error-function sigmoid, fastest approach to saturation.
//   - CurveMetalC: arctangent sigmoid.
//   - CurveSoft: softplus-difference clip with a variable knee width.
//
// Evaluation is allocation-free and loop-free.
package saturation
