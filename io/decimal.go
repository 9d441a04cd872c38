package io

import (
	"bufio"
	"io"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Decimal carries values as base-10 text. Input tokens may be separated by
// whitespace or commas; output values are written one per line.
type Decimal struct {
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
}

var _ Tape = (*Decimal)(nil)

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// scanValues is a bufio.SplitFunc yielding separator delimited tokens.
func scanValues(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, width := utf8.DecodeRune(data[start:])
		if !isSeparator(r) {
			break
		}
		start += width
	}

	for n := start; n < len(data); {
		r, width := utf8.DecodeRune(data[n:])
		if isSeparator(r) {
			return n + width, data[start:n], nil
		}
		n += width
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}

	return start, nil, nil
}

// Feed reads the next value and pushes it to the port.
func (dc *Decimal) Feed(port Port) (err error) {
	if dc.Input == nil {
		err = ErrTapeInput
		return
	}

	if dc.scanner == nil {
		dc.scanner = bufio.NewScanner(dc.Input)
		dc.scanner.Split(scanValues)
	}

	if !dc.scanner.Scan() {
		err = dc.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		return
	}

	word := dc.scanner.Text()
	value, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		err = ErrParseValue(word)
		return
	}

	port.PushInput(value)

	return
}

// Flush drains the port output, one decimal value per line.
func (dc *Decimal) Flush(port Port) (err error) {
	if dc.Output == nil {
		err = ErrTapeOutput
		return
	}

	var data []byte
	for _, value := range port.DrainOutput() {
		data = strconv.AppendInt(data, value, 10)
		data = append(data, '\n')
	}
	if len(data) == 0 {
		return
	}

	_, err = dc.Output.Write(data)
	return
}
