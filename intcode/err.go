package intcode

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrOpcodeDecode   = errors.New(f("decode"))
	ErrModeInvalid    = errors.New(f("parameter mode invalid"))
	ErrWriteImmediate = errors.New(f("immediate write target"))
	ErrAddressInvalid = errors.New(f("negative address"))

	// Caller errors
	ErrMissingOutput = errors.New(f("missing output"))
	ErrInputStarved  = errors.New(f("waiting for input"))
	ErrProgramEmpty  = errors.New(f("program empty"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOperandInvalid     = errors.New(f("operand invalid"))
	ErrOperandWrite       = errors.New(f("operand not writable"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrOpcode is returned when a cell does not decode to a known opcode.
type ErrOpcode struct {
	Ip     int64
	Opcode int64
}

func (err ErrOpcode) Error() string {
	return f("unknown opcode %02d @ %d", err.Opcode, err.Ip)
}

func (err ErrOpcode) Is(target error) bool {
	return target == ErrOpcodeDecode
}

// ErrMode is returned when a parameter has an unusable addressing mode.
type ErrMode struct {
	Ip    int64
	Param int // Parameter index, starting at 0.
	Mode  Mode
}

func (err ErrMode) Error() string {
	return f("invalid parameter mode %d %d @ %d", err.Param, int64(err.Mode), err.Ip)
}

func (err ErrMode) Is(target error) bool {
	return target == ErrModeInvalid
}

// ErrAccess is returned when an address resolves to a negative value.
type ErrAccess struct {
	Ip      int64
	Address int64
}

func (err ErrAccess) Error() string {
	return f("illegal memory access %d @ %d", err.Address, err.Ip)
}

func (err ErrAccess) Is(target error) bool {
	return target == ErrAddressInvalid
}

// ErrParseCell is returned when a program cell is not a decimal integer.
type ErrParseCell struct {
	Index int
	Text  string
}

func (err ErrParseCell) Error() string {
	return f("cell %d '%v' is not a number", err.Index, err.Text)
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a single character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
