package intcode

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachineArithmetic(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		opcode   Opcode
		expected int64
	}){
		{"add", OP_ADD, 15},
		{"mul", OP_MUL, 54},
		{"lt", OP_LT, 1},
		{"eq", OP_EQ, 0},
	}

	modes := []Mode{MODE_POSITION, MODE_IMMEDIATE}

	for _, entry := range table {
		for _, mode_a := range modes {
			for _, mode_b := range modes {
				// Operands are 6 and 9 in any mode, result to cell 7.
				program := []int64{int64(MakeCode(entry.opcode, mode_a, mode_b)), 5, 6, 7, 99, 6, 9, 0}
				if mode_a == MODE_IMMEDIATE {
					program[1] = 6
				}
				if mode_b == MODE_IMMEDIATE {
					program[2] = 9
				}

				m := NewMachine(program)
				state, err := m.Run()
				assert.NoError(err, entry.name)
				assert.Equal(STATE_TERMINATED, state, entry.name)

				value, err := m.Peek(7)
				assert.NoError(err)
				assert.Equal(entry.expected, value, "%v %v %v", entry.name, mode_a, mode_b)
				assert.Equal(2, m.Ticks, entry.name)
			}
		}
	}
}

func TestMachineWrap(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]int64{1101, math.MaxInt64, 1, 5, 99, 0})
	_, err := m.Run()
	assert.NoError(err)

	value, _ := m.Peek(5)
	assert.Equal(int64(math.MinInt64), value)
}

func TestMachineSelfModify(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]int64{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50})
	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(STATE_TERMINATED, state)
	value, _ := m.Peek(0)
	assert.Equal(int64(3500), value)

	m = NewMachine([]int64{1002, 4, 3, 4, 33})
	state, err = m.Run()
	assert.NoError(err)
	assert.Equal(STATE_TERMINATED, state)
	value, _ = m.Peek(4)
	assert.Equal(int64(99), value)
}

func TestMachineCompare(t *testing.T) {
	assert := assert.New(t)

	program := []int64{
		3, 21, 1008, 21, 8, 20, 1005, 20, 22, 107, 8, 21, 20, 1006, 20, 31,
		1106, 0, 36, 98, 0, 0, 1002, 21, 125, 20, 4, 20, 1105, 1, 46, 104,
		999, 1105, 1, 46, 1101, 1000, 1, 20, 4, 20, 1105, 1, 46, 98, 99,
	}

	table := map[int64]int64{
		-5: 999,
		7:  999,
		8:  1000,
		9:  1001,
		50: 1001,
	}

	for input, expected := range table {
		output, err := RunProgramWithInputs(program, []int64{input})
		assert.NoError(err, input)
		assert.Equal([]int64{expected}, output, input)
	}
}

func TestMachineSuspend(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8})
	assert.Equal(STATE_INITIAL, m.State())

	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(STATE_WAITING, state)
	assert.Equal(STATE_WAITING, m.State())
	assert.Equal(int64(0), m.Ip)
	assert.Equal(0, m.Ticks)

	// Resuming with no new input waits again without progress.
	state, err = m.Run()
	assert.NoError(err)
	assert.Equal(STATE_WAITING, state)
	assert.Equal(int64(0), m.Ip)

	m.PushInput(8)
	assert.Equal(1, m.PendingInput())
	state, err = m.Run()
	assert.NoError(err)
	assert.Equal(STATE_TERMINATED, state)
	assert.Equal(0, m.PendingInput())
	assert.Equal(1, m.PendingOutput())

	value, ok := m.PopOutput()
	assert.True(ok)
	assert.Equal(int64(1), value)

	_, ok = m.PopOutput()
	assert.False(ok)
}

func TestMachineTerminated(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]int64{99})
	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(STATE_TERMINATED, state)
	assert.Equal(int64(0), m.Ip)
	assert.Equal(1, m.Ticks)

	for range 3 {
		state, err = m.Step()
		assert.NoError(err)
		assert.Equal(STATE_TERMINATED, state)
	}
	assert.Equal(1, m.Ticks)

	// Input pushed after termination is never consumed.
	m.PushInput(1, 2)
	state, err = m.Run()
	assert.NoError(err)
	assert.Equal(STATE_TERMINATED, state)
	assert.Equal(2, m.PendingInput())
}

func TestMachineStep(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]int64{1101, 1, 2, 5, 99, 0})

	state, err := m.Step()
	assert.NoError(err)
	assert.Equal(STATE_RUNNING, state)
	assert.Equal(int64(4), m.Ip)

	value, _ := m.Peek(5)
	assert.Equal(int64(3), value)

	state, err = m.Step()
	assert.NoError(err)
	assert.Equal(STATE_TERMINATED, state)
	assert.Equal(int64(4), m.Ip)
}

func TestMachineRelative(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		program  []int64
		expected []int64
	}){
		{"negative_offset", []int64{109, 20, 21101, 7, 8, -3, 204, -3, 99}, []int64{15}},
		{"positive_offset", []int64{109, 10, 21101, 7, 8, 5, 204, 5, 99}, []int64{15}},
		{"large_address", []int64{1101, 5, 6, 10000, 4, 10000, 99}, []int64{11}},
		{"large_value", []int64{104, 1125899906842624, 99}, []int64{1125899906842624}},
		{"large_product", []int64{1102, 34915192, 34915192, 7, 4, 7, 99, 0}, []int64{1219070632396864}},
	}

	for _, entry := range table {
		output, err := RunProgramWithInputs(entry.program, nil)
		assert.NoError(err, entry.name)
		assert.Equal(entry.expected, output, entry.name)
	}
}

func TestMachineQuine(t *testing.T) {
	assert := assert.New(t)

	program := []int64{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}

	m := NewMachine(program)
	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(STATE_TERMINATED, state)
	assert.Equal(program, m.DrainOutput())
	assert.Equal(int64(16), m.RelativeBase)
}

func TestMachineTextInput(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]int64{3, 0, 4, 0, 3, 0, 4, 0, 99})
	m.PushTextInput("hé")
	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(STATE_TERMINATED, state)
	assert.Equal([]int64{'h', 0xe9}, m.DrainOutput())
	assert.Equal([]int64{}, m.DrainOutput())
}

func TestMachineErrors(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]int64{42})
	state, err := m.Run()
	assert.Equal(STATE_INITIAL, state)
	assert.Equal(ErrOpcode{Ip: 0, Opcode: 42}, err)
	assert.True(errors.Is(err, ErrOpcodeDecode))

	m = NewMachine([]int64{301, 0, 0, 0, 99})
	_, err = m.Run()
	assert.Equal(ErrMode{Ip: 0, Param: 0, Mode: 3}, err)
	assert.True(errors.Is(err, ErrModeInvalid))

	m = NewMachine([]int64{11101, 1, 1, 0, 99})
	_, err = m.Run()
	assert.True(errors.Is(err, ErrModeInvalid))
	assert.True(errors.Is(err, ErrWriteImmediate))
	value, _ := m.Peek(0)
	assert.Equal(int64(11101), value)
	assert.Equal(int64(0), m.Ip)

	m = NewMachine([]int64{1, -1, 0, 0, 99})
	_, err = m.Run()
	assert.Equal(ErrAccess{Ip: 0, Address: -1}, err)
	assert.True(errors.Is(err, ErrAddressInvalid))

	m = NewMachine([]int64{109, -10, 204, 3, 99})
	_, err = m.Run()
	assert.Equal(ErrAccess{Ip: 2, Address: -7}, err)
	assert.Equal(0, m.PendingOutput())

	// Jumping to a negative address fails on the next fetch.
	m = NewMachine([]int64{1105, 1, -5})
	state, err = m.Step()
	assert.NoError(err)
	assert.Equal(STATE_RUNNING, state)
	state, err = m.Step()
	assert.Equal(STATE_RUNNING, state)
	assert.Equal(ErrAccess{Ip: -5, Address: -5}, err)

	// A failed step keeps the last recorded state.
	m = NewMachine([]int64{3, 5, 42})
	state, _ = m.Run()
	assert.Equal(STATE_WAITING, state)
	m.PushInput(1)
	state, err = m.Run()
	assert.Equal(STATE_RUNNING, state)
	assert.Equal(ErrOpcode{Ip: 2, Opcode: 42}, err)
	assert.Equal(1, m.Ticks)
}

func TestMachinePeekPoke(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]int64{1, 0, 0, 0, 99})
	assert.NoError(m.Poke(1, 4))
	assert.NoError(m.Poke(2, 4))
	_, err := m.Run()
	assert.NoError(err)
	value, _ := m.Peek(0)
	assert.Equal(int64(198), value)

	_, err = m.Peek(-1)
	assert.True(errors.Is(err, ErrAddressInvalid))
	assert.True(errors.Is(m.Poke(-1, 0), ErrAddressInvalid))
}

func TestMachineClone(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8})
	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(STATE_WAITING, state)

	clone := m.Clone()
	assert.Equal(STATE_WAITING, clone.State())

	clone.PushInput(8)
	m.PushInput(7)

	_, err = clone.Run()
	assert.NoError(err)
	_, err = m.Run()
	assert.NoError(err)

	assert.Equal([]int64{1}, clone.DrainOutput())
	assert.Equal([]int64{0}, m.DrainOutput())

	value, _ := clone.Peek(9)
	assert.Equal(int64(1), value)
	value, _ = m.Peek(9)
	assert.Equal(int64(0), value)
}

func TestRunProgramWithInputs(t *testing.T) {
	assert := assert.New(t)

	program := []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}

	output, err := RunProgramWithInputs(program, []int64{8})
	assert.NoError(err)
	assert.Equal([]int64{1}, output)

	output, err = RunProgramWithInputs(program, nil)
	assert.True(errors.Is(err, ErrInputStarved))
	assert.Empty(output)

	// The caller's program is not modified.
	output, err = RunProgramWithInputs([]int64{1, 0, 0, 0, 4, 0, 99}, nil)
	assert.NoError(err)
	assert.Equal([]int64{2}, output)
	assert.Equal(int64(3), program[0])

	_, err = RunProgramWithInputs([]int64{42}, nil)
	assert.True(errors.Is(err, ErrOpcodeDecode))
}

func TestMachineString(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]int64{104, 7, 99})
	m.Verbose = true
	_, err := m.Run()
	assert.NoError(err)

	text := m.String()
	assert.Contains(text, "    ip: 2 (99)\n")
	assert.Contains(text, " state: terminated\n")
	assert.Contains(text, "output: 1 pending\n")
}
