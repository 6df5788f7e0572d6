// Package analysis provides frequency-domain analysis of a completed run.
//
// [FFT] and [PowerSpectrum] are the recursive radix-2 Cooley-Tukey
// transform, applied by cmd/ballsim's analyze command to the
// kinetic-energy-over-time series read back from a run's frame files.
// The series uses the velocities stored in each frame: with elastic
// collisions and gravity off it is constant, so only the zero-frequency
// bin is non-zero; with gravity on it rises and falls with the balls'
// height between bounces.
package analysis
