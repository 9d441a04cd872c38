// Package intcode implements the Intcode virtual machine and its assembler.
//
// A Machine has an instruction pointer, a relative base register, a sparse
// paged memory of signed 64-bit cells, and FIFO input and output queues.
// Instructions are decoded from a single cell: the low two decimal digits
// select the opcode, and each following digit selects the addressing mode
// of one parameter (position, immediate or relative).
//
// Execution is cooperative. Step executes one instruction and Run steps
// until the machine halts or an input instruction finds the input queue
// empty. In the latter case nothing is consumed and the instruction pointer
// is left on the input instruction, so pushing more input and calling Run
// again resumes exactly where the machine stopped.
//
// The assembler provides a small assembly language for the instruction set,
// supporting labels, equates, macros, and compile-time expression evaluation.
package intcode
