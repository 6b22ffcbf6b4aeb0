// Package cpu implements the central processor, core memory and assembler
// for the PDP-7 emulator.
//
// The processor has an 18-bit accumulator (AC), a one bit link, a 13-bit
// program counter and 8K words of core. Each Step fetches one word,
// decodes it into an opcode, an indirect bit and an address field, and
// executes it. Output to peripherals goes through single word mailboxes;
// input comes from a Keyboard.
//
// Operate (OPR) words are decoded as independent micro-operations applied
// in a fixed order, rather than matched against a table of known words.
//
// There is no trap mechanism: any decode fault stops the processor and is
// returned to the caller.
//
// The assembler reads a small PDP-7 assembly language with labels,
// equates, octal literals and compile-time $(...) expressions, and
// produces a Program that can be loaded into core or written as an octal
// dump.
package cpu
