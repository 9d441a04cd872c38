package intcode

import (
	"fmt"
	"strings"
)

// Opcode is an instruction operation code.
type Opcode int64

const (
	OP_ADD  = Opcode(1)  // add
	OP_MUL  = Opcode(2)  // mul
	OP_IN   = Opcode(3)  // in
	OP_OUT  = Opcode(4)  // out
	OP_JT   = Opcode(5)  // jt
	OP_JF   = Opcode(6)  // jf
	OP_LT   = Opcode(7)  // lt
	OP_EQ   = Opcode(8)  // eq
	OP_ARB  = Opcode(9)  // arb
	OP_HALT = Opcode(99) // halt
)

// Param is the access a parameter needs.
type Param int

const (
	PARAM_READ  = Param(0) // r
	PARAM_WRITE = Param(1) // w
)

// opcodeInfo describes an opcode's mnemonic and parameters.
type opcodeInfo struct {
	Name   string
	Params []Param
}

var opcodeTable = map[Opcode]opcodeInfo{
	OP_ADD:  {"add", []Param{PARAM_READ, PARAM_READ, PARAM_WRITE}},
	OP_MUL:  {"mul", []Param{PARAM_READ, PARAM_READ, PARAM_WRITE}},
	OP_IN:   {"in", []Param{PARAM_WRITE}},
	OP_OUT:  {"out", []Param{PARAM_READ}},
	OP_JT:   {"jt", []Param{PARAM_READ, PARAM_READ}},
	OP_JF:   {"jf", []Param{PARAM_READ, PARAM_READ}},
	OP_LT:   {"lt", []Param{PARAM_READ, PARAM_READ, PARAM_WRITE}},
	OP_EQ:   {"eq", []Param{PARAM_READ, PARAM_READ, PARAM_WRITE}},
	OP_ARB:  {"arb", []Param{PARAM_READ}},
	OP_HALT: {"halt", nil},
}

// Valid returns true if the opcode has a dispatch entry.
func (op Opcode) Valid() bool {
	_, ok := opcodeTable[op]
	return ok
}

// Params returns the access needed by each parameter of the opcode.
func (op Opcode) Params() []Param {
	return opcodeTable[op].Params
}

// Width returns the number of cells the instruction occupies.
func (op Opcode) Width() int64 {
	return int64(len(op.Params()) + 1)
}

func (op Opcode) String() string {
	info, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf("Opcode(%d)", int64(op))
	}
	return info.Name
}

// Mode is a parameter addressing mode.
type Mode int64

const (
	MODE_POSITION  = Mode(0) // position
	MODE_IMMEDIATE = Mode(1) // immediate
	MODE_RELATIVE  = Mode(2) // relative
)

var modeNames = [...]string{
	MODE_POSITION:  "position",
	MODE_IMMEDIATE: "immediate",
	MODE_RELATIVE:  "relative",
}

// Valid returns true for the three recognized modes.
func (mode Mode) Valid() bool {
	return mode >= MODE_POSITION && mode <= MODE_RELATIVE
}

func (mode Mode) String() string {
	if !mode.Valid() {
		return fmt.Sprintf("Mode(%d)", int64(mode))
	}
	return modeNames[mode]
}

// State is the execution state of a machine.
type State int

const (
	STATE_INITIAL    = State(0) // initial
	STATE_RUNNING    = State(1) // running
	STATE_WAITING    = State(2) // waiting
	STATE_TERMINATED = State(3) // terminated
)

var stateNames = [...]string{
	STATE_INITIAL:    "initial",
	STATE_RUNNING:    "running",
	STATE_WAITING:    "waiting",
	STATE_TERMINATED: "terminated",
}

func (state State) String() string {
	if state < STATE_INITIAL || state > STATE_TERMINATED {
		return fmt.Sprintf("State(%d)", int(state))
	}
	return stateNames[state]
}

// Suspended returns true for the states Run returns in.
func (state State) Suspended() bool {
	return state == STATE_WAITING || state == STATE_TERMINATED
}

// Code is a raw instruction cell.
type Code int64

// MakeCode encodes an instruction cell from an opcode and parameter modes.
func MakeCode(op Opcode, modes ...Mode) Code {
	word := int64(op)
	scale := int64(100)
	for _, mode := range modes {
		word += int64(mode) * scale
		scale *= 10
	}
	return Code(word)
}

// Opcode returns the low two decimal digits of the cell.
func (code Code) Opcode() Opcode {
	return Opcode(int64(code) % 100)
}

// Mode returns the addressing mode digit of parameter n, starting at 0.
func (code Code) Mode(n int) Mode {
	word := int64(code) / 100
	for range n {
		word /= 10
	}
	return Mode(word % 10)
}

// Instruction is a decoded instruction cell.
type Instruction struct {
	Opcode Opcode
	Modes  [3]Mode
}

// Decode decodes the instruction cell at ip. Only the modes of parameters
// the opcode uses are checked.
func Decode(ip int64, code Code) (ins Instruction, err error) {
	op := code.Opcode()
	if code < 0 || !op.Valid() {
		err = ErrOpcode{Ip: ip, Opcode: int64(op)}
		return
	}

	ins.Opcode = op
	for n := range op.Params() {
		mode := code.Mode(n)
		if !mode.Valid() {
			err = ErrMode{Ip: ip, Param: n, Mode: mode}
			return
		}
		ins.Modes[n] = mode
	}

	return
}

// Width returns the number of cells the instruction occupies.
func (ins Instruction) Width() int64 {
	return ins.Opcode.Width()
}

// Code re-encodes the instruction as a cell.
func (ins Instruction) Code() Code {
	return MakeCode(ins.Opcode, ins.Modes[:len(ins.Opcode.Params())]...)
}

// Format returns the assembly language representation of the instruction
// with its raw parameter cells.
func (ins Instruction) Format(params []int64) string {
	words := []string{ins.Opcode.String()}
	for n := range ins.Opcode.Params() {
		var value int64
		if n < len(params) {
			value = params[n]
		}
		switch ins.Modes[n] {
		case MODE_POSITION:
			words = append(words, fmt.Sprintf("[%d]", value))
		case MODE_IMMEDIATE:
			words = append(words, fmt.Sprintf("%d", value))
		case MODE_RELATIVE:
			words = append(words, fmt.Sprintf("rb[%d]", value))
		}
	}
	return strings.Join(words, " ")
}

func (ins Instruction) String() string {
	return fmt.Sprintf("%v modes:%v", ins.Opcode, ins.Modes[:len(ins.Opcode.Params())])
}
