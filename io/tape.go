package io

import (
	"bufio"
	"io"
)

// Text carries the ASCII protocol: input is read a line at a time and
// pushed as code points, output values are truncated to bytes.
type Text struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
}

var _ Tape = (*Text)(nil)

// Feed reads one line, including its newline, and pushes it to the port.
// A final line without a newline is pushed as is.
func (tc *Text) Feed(port Port) (err error) {
	if tc.Input == nil {
		err = ErrTapeInput
		return
	}

	if tc.reader == nil {
		tc.reader = bufio.NewReader(tc.Input)
	}

	line, err := tc.reader.ReadString('\n')
	if len(line) == 0 {
		return
	}
	err = nil

	values := make([]int64, 0, len(line))
	for _, r := range line {
		values = append(values, int64(r))
	}
	port.PushInput(values...)

	return
}

// Flush drains the port output, writing each value as a single byte.
func (tc *Text) Flush(port Port) (err error) {
	if tc.Output == nil {
		err = ErrTapeOutput
		return
	}

	values := port.DrainOutput()
	if len(values) == 0 {
		return
	}

	data := make([]byte, len(values))
	for n, value := range values {
		data[n] = byte(value)
	}

	_, err = tc.Output.Write(data)
	return
}
