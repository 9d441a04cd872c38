// Package io provides the integer I/O channel of the Intcode machine and
// adapters that carry it over byte streams.
//
// A Queue is the FIFO a machine reads its input from and writes its output
// to. Tapes move values between a Port and an io.Reader or io.Writer, either
// as line oriented ASCII text (Text) or as decimal numbers (Decimal).
package io

// Port is the side of a machine a tape talks to.
type Port interface {
	// PushInput appends values to the input queue.
	PushInput(values ...int64)
	// DrainOutput removes and returns all pending output values.
	DrainOutput() []int64
}

// Tape moves values between a Port and a byte stream.
type Tape interface {
	// Feed reads the next chunk of input and pushes it to the port.
	// Returns io.EOF once the input is exhausted.
	Feed(port Port) error
	// Flush drains the port output to the stream.
	Flush(port Port) error
}
