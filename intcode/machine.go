package intcode

import (
	"errors"
	"fmt"
	"log"

	"github.com/ezrec/intcode/io"
)

// Machine is the execution context of one Intcode program.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Memory       *Memory  // Program memory.
	Ip           int64    // Current instruction pointer.
	RelativeBase int64    // Base added to relative mode parameters.
	Input        io.Queue // Values consumed by 'in'.
	Output       io.Queue // Values produced by 'out'.

	Ticks int // Executed instruction counter.

	state State
}

var _ io.Port = (*Machine)(nil)

// NewMachine creates a machine with a copy of program loaded at address 0.
func NewMachine(program []int64) (m *Machine) {
	m = &Machine{
		Memory: NewMemory(program),
	}

	return
}

// RunProgramWithInputs runs program once with all of inputs queued, and
// returns its output. If the program is still waiting for input when the
// queue runs dry, the output so far is returned with ErrInputStarved.
func RunProgramWithInputs(program []int64, inputs []int64) (output []int64, err error) {
	m := NewMachine(program)
	m.PushInput(inputs...)

	state, err := m.Run()
	if err != nil {
		return
	}

	output = m.DrainOutput()
	if state == STATE_WAITING {
		err = ErrInputStarved
	}

	return
}

// State returns the state recorded by the last successful step.
func (m *Machine) State() State {
	return m.state
}

// PushInput appends values to the input queue.
func (m *Machine) PushInput(values ...int64) {
	m.Input.Push(values...)
}

// PushTextInput appends the code point of each character of text to the
// input queue.
func (m *Machine) PushTextInput(text string) {
	for _, r := range text {
		m.Input.Push(int64(r))
	}
}

// PopOutput removes and returns the oldest output value.
func (m *Machine) PopOutput() (value int64, ok bool) {
	return m.Output.Pop()
}

// DrainOutput removes and returns all output values.
func (m *Machine) DrainOutput() []int64 {
	return m.Output.Drain()
}

// PendingInput returns the number of unconsumed input values.
func (m *Machine) PendingInput() int {
	return m.Input.Len()
}

// PendingOutput returns the number of undrained output values.
func (m *Machine) PendingOutput() int {
	return m.Output.Len()
}

// Peek returns the memory cell at address.
func (m *Machine) Peek(address int64) (value int64, err error) {
	if address < 0 {
		err = ErrAccess{Ip: m.Ip, Address: address}
		return
	}

	value = m.Memory.Read(address)
	return
}

// Poke sets the memory cell at address.
func (m *Machine) Poke(address int64, value int64) (err error) {
	if address < 0 {
		err = ErrAccess{Ip: m.Ip, Address: address}
		return
	}

	m.Memory.Write(address, value)
	return
}

// Clone returns an independent copy of the machine, including its memory,
// registers and queues.
func (m *Machine) Clone() (clone *Machine) {
	clone = &Machine{
		Verbose:      m.Verbose,
		Memory:       m.Memory.Clone(),
		Ip:           m.Ip,
		RelativeBase: m.RelativeBase,
		Input:        m.Input.Clone(),
		Output:       m.Output.Clone(),
		Ticks:        m.Ticks,
		state:        m.state,
	}

	return
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	regs := []string{"ip", "rb", "state", "input", "output", "pages", "ticks"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "ip":
			strval = fmt.Sprintf("%d", m.Ip)
			if m.Ip >= 0 {
				strval += fmt.Sprintf(" (%d)", m.Memory.Read(m.Ip))
			}
		case "rb":
			strval = fmt.Sprintf("%d", m.RelativeBase)
		case "state":
			strval = m.state.String()
		case "input":
			strval = fmt.Sprintf("%d pending", m.Input.Len())
		case "output":
			strval = fmt.Sprintf("%d pending", m.Output.Len())
		case "pages":
			strval = fmt.Sprintf("%d", m.Memory.Pages())
		case "ticks":
			strval = fmt.Sprintf("%d", m.Ticks)
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}

// Fetch decodes the instruction at the instruction pointer.
func (m *Machine) Fetch() (ins Instruction, err error) {
	if m.Ip < 0 {
		err = ErrAccess{Ip: m.Ip, Address: m.Ip}
		return
	}

	return Decode(m.Ip, Code(m.Memory.Read(m.Ip)))
}

// Step executes a single instruction and returns the resulting state.
// A terminated machine stays terminated and executes nothing.
func (m *Machine) Step() (state State, err error) {
	if m.state == STATE_TERMINATED {
		state = m.state
		return
	}

	ins, err := m.Fetch()
	if err != nil {
		state = m.state
		return
	}

	state, err = m.Execute(ins)
	if err != nil {
		state = m.state
		return
	}

	m.state = state
	return
}

// Run steps the machine until it halts or waits for input.
func (m *Machine) Run() (state State, err error) {
	for {
		state, err = m.Step()
		if err != nil || state != STATE_RUNNING {
			return
		}
	}
}

// Execute executes a single decoded instruction at the instruction pointer.
// All parameters are resolved before anything is modified.
func (m *Machine) Execute(ins Instruction) (state State, err error) {
	params := ins.Opcode.Params()

	if m.Verbose {
		log.Printf("%04d: %v", m.Ip, ins.Format(m.Memory.Slice(m.Ip+1, len(params))))
	}

	// Read parameters hold values, write parameters hold addresses.
	var args [3]int64
	for n, param := range params {
		args[n], err = m.resolve(ins, n, param)
		if err != nil {
			return
		}
	}

	state = STATE_RUNNING
	next_ip := m.Ip + ins.Width()

	switch ins.Opcode {
	case OP_ADD:
		m.Memory.Write(args[2], args[0]+args[1])
	case OP_MUL:
		m.Memory.Write(args[2], args[0]*args[1])
	case OP_IN:
		value, ok := m.Input.Pop()
		if !ok {
			if m.Verbose {
				log.Printf("%04d: waiting for input", m.Ip)
			}
			// Don't advance; resume re-executes this instruction.
			state = STATE_WAITING
			return
		}
		m.Memory.Write(args[0], value)
	case OP_OUT:
		m.Output.Push(args[0])
	case OP_JT:
		if args[0] != 0 {
			next_ip = args[1]
		}
	case OP_JF:
		if args[0] == 0 {
			next_ip = args[1]
		}
	case OP_LT:
		m.Memory.Write(args[2], boolCell(args[0] < args[1]))
	case OP_EQ:
		m.Memory.Write(args[2], boolCell(args[0] == args[1]))
	case OP_ARB:
		m.RelativeBase += args[0]
	case OP_HALT:
		state = STATE_TERMINATED
		next_ip = m.Ip
	default:
		err = ErrOpcode{Ip: m.Ip, Opcode: int64(ins.Opcode)}
		return
	}

	m.Ip = next_ip
	m.Ticks += 1

	return
}

// resolve returns the value of a read parameter, or the target address of
// a write parameter.
func (m *Machine) resolve(ins Instruction, n int, param Param) (value int64, err error) {
	address, err := m.address(ins, n, param)
	if err != nil {
		return
	}

	if param == PARAM_WRITE {
		value = address
	} else {
		value = m.Memory.Read(address)
	}

	return
}

// address returns the effective address of parameter n.
func (m *Machine) address(ins Instruction, n int, param Param) (address int64, err error) {
	at := m.Ip + 1 + int64(n)

	mode := ins.Modes[n]
	switch mode {
	case MODE_POSITION:
		address = m.Memory.Read(at)
	case MODE_IMMEDIATE:
		if param == PARAM_WRITE {
			err = errors.Join(ErrMode{Ip: m.Ip, Param: n, Mode: mode}, ErrWriteImmediate)
			return
		}
		address = at
	case MODE_RELATIVE:
		address = m.Memory.Read(at) + m.RelativeBase
	default:
		err = ErrMode{Ip: m.Ip, Param: n, Mode: mode}
		return
	}

	if address < 0 {
		err = ErrAccess{Ip: m.Ip, Address: address}
		return
	}

	return
}

func boolCell(cond bool) int64 {
	if cond {
		return 1
	}
	return 0
}
