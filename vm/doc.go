// Package vm implements the schlep virtual machine.
//
// This package contains:
//   - Instruction descriptors and the tri-valued step outcome
//   - Ordered, index-addressable instruction sets
//   - Programs: index sequences compiled against an instruction set,
//     with precomputed branch targets and textual/binary codecs
//   - Machines: single-stack, dual-stack (tape) and register variants
//   - Environments: lock-step scheduling over a group of machines
package vm
