// Package ops provides the built-in instruction catalogs: arithmetic,
// stack manipulation, bitwise operators, comparison and stack-state
// conditionals, the end terminator, and the operators specific to the tape
// and register machine variants.
//
// Each catalog is an independent instruction set; callers assemble the
// combination they need, typically starting from Default. Registration
// order is fixed so that program encodings stay stable.
package ops
