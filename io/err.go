package io

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Tape errors
	ErrTapeInput  = errors.New(f("tape has no input"))
	ErrTapeOutput = errors.New(f("tape has no output"))
)

// ErrParseValue reports a decimal token that is not an integer.
type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a decimal value", string(err))
}
