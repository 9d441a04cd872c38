package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/intcode"
	intio "github.com/ezrec/intcode/io"
)

func TestPatch(t *testing.T) {
	assert := assert.New(t)

	prog := intcode.Program{1, 0, 0, 0, 99}

	patched, err := patch(prog, "1=12, 2=2,7=0x10")
	assert.NoError(err)
	assert.Equal(intcode.Program{1, 12, 2, 0, 99, 0, 0, 16}, patched)
	assert.Equal(intcode.Program{1, 0, 0, 0, 99}, prog)

	_, err = patch(prog, "-1=5")
	assert.True(errors.Is(err, intcode.ErrAddressInvalid))

	_, err = patch(prog, "1")
	assert.Error(err)

	_, err = patch(prog, "1=x")
	assert.Error(err)
}

func TestExecute(t *testing.T) {
	assert := assert.New(t)

	compare := []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}

	output := &bytes.Buffer{}
	tape := &intio.Decimal{Input: strings.NewReader("8\n"), Output: output}
	err := execute(intcode.NewMachine(compare), tape)
	assert.NoError(err)
	assert.Equal("1\n", output.String())

	output.Reset()
	tape = &intio.Decimal{Input: strings.NewReader(""), Output: output}
	err = execute(intcode.NewMachine(compare), tape)
	assert.True(errors.Is(err, intcode.ErrInputStarved))

	// Echo two characters back.
	output.Reset()
	text := &intio.Text{Input: strings.NewReader("hi\n"), Output: output}
	err = execute(intcode.NewMachine([]int64{3, 0, 4, 0, 3, 0, 4, 0, 99}), text)
	assert.NoError(err)
	assert.Equal("hi", output.String())

	err = execute(intcode.NewMachine([]int64{42}), text)
	assert.True(errors.Is(err, intcode.ErrOpcodeDecode))
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	_, _, err := load("", "", false)
	assert.Error(err)

	_, _, err = load("a", "b", false)
	assert.Error(err)

	_, _, err = load("/nonexistent/program.txt", "", false)
	assert.Error(err)
}
