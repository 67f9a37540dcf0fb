// Package loop captures the input/output transfer loop of a processor driven
// by a sine and reports its geometry.
//
// A memoryless nonlinearity traces a single curve. A hysteretic one opens
// into a loop whose falling branch lies above the rising branch; the loop
// area, the remanence at zero input and the width at zero output quantify
// how far it opens.
package loop
