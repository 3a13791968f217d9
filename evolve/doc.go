// Package evolve implements the genetic operators over programs:
// structure-aware crossover, bit-flip mutation and random generation.
//
// All operators are pure with respect to their inputs: they read existing
// programs and return newly compiled ones, so sharing parents across
// concurrent breeding loops is safe. Randomness comes from an explicit
// *rand.Rand so runs are reproducible.
package evolve
