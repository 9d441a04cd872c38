package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ezrec/intcode/intcode"
)

var (
	errCommand  = errors.New("unknown command")
	errArgument = errors.New("bad arguments")
)

// monitor is an interactive single stepper for a machine.
type monitor struct {
	m   *intcode.Machine
	lst *intcode.Listing // Source listing, if the program was assembled.
	out io.Writer
}

// where prints the instruction at the instruction pointer, and its source
// line when a listing is available.
func (mon *monitor) where() {
	m := mon.m
	ins, err := m.Fetch()
	if err != nil {
		fmt.Fprintf(mon.out, "%04d: %v\n", m.Ip, err)
		return
	}

	text := fmt.Sprintf("%04d: %v", m.Ip, ins.Format(m.Memory.Slice(m.Ip+1, len(ins.Opcode.Params()))))
	if mon.lst != nil {
		dbg := mon.lst.Debug(m.Ip)
		if dbg.Statement != nil {
			text += fmt.Sprintf(" ; line %d: %v", dbg.LineNo, strings.Join(dbg.Words, " "))
		}
	}
	fmt.Fprintln(mon.out, text)
}

func parseValues(words []string) (values []int64, err error) {
	values = make([]int64, len(words))
	for n, word := range words {
		values[n], err = strconv.ParseInt(word, 0, 64)
		if err != nil {
			return
		}
	}
	return
}

// command executes one monitor command line.
func (mon *monitor) command(line string) (quit bool, err error) {
	m := mon.m

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	args, err := parseValues(words[1:])
	switch words[0] {
	case "text", "t":
		// Takes the raw remainder of the line.
		err = nil
	default:
		if err != nil {
			return
		}
	}

	switch words[0] {
	case "quit", "q":
		quit = true
	case "step", "s":
		count := int64(1)
		if len(args) > 0 {
			count = args[0]
		}
		var state intcode.State
		for range count {
			state, err = m.Step()
			if err != nil || state.Suspended() {
				break
			}
		}
		if err != nil {
			return
		}
		fmt.Fprintf(mon.out, "%v\n", state)
		mon.where()
	case "run", "r":
		var state intcode.State
		state, err = m.Run()
		if err != nil {
			return
		}
		fmt.Fprintf(mon.out, "%v\n", state)
		mon.where()
	case "input", "i":
		m.PushInput(args...)
	case "text", "t":
		_, text, _ := strings.Cut(strings.TrimSpace(line), " ")
		m.PushTextInput(text + "\n")
	case "output", "o":
		fmt.Fprintln(mon.out, intcode.Program(m.DrainOutput()))
	case "peek", "p":
		if len(args) < 1 || len(args) > 2 {
			err = errArgument
			return
		}
		count := int64(1)
		if len(args) == 2 {
			count = args[1]
		}
		if args[0] < 0 || count < 0 {
			err = intcode.ErrAccess{Ip: m.Ip, Address: args[0]}
			return
		}
		fmt.Fprintln(mon.out, intcode.Program(m.Memory.Slice(args[0], int(count))))
	case "poke":
		if len(args) != 2 {
			err = errArgument
			return
		}
		err = m.Poke(args[0], args[1])
	case "regs":
		fmt.Fprint(mon.out, m.String())
	case "where", "w":
		mon.where()
	default:
		err = errCommand
	}

	return
}

// runMonitor reads monitor commands from the terminal until quit or EOF.
func runMonitor(mon *monitor) (err error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "intcode> ",
	})
	if err != nil {
		return
	}
	defer rl.Close()

	mon.out = rl.Stdout()
	mon.where()

	for {
		var line string
		line, err = rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		var quit bool
		quit, err = mon.command(line)
		if err != nil {
			fmt.Fprintf(mon.out, "%v: %v\n", line, err)
			err = nil
		}
		if quit {
			return
		}
	}
}
