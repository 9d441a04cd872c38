// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/intcode/intcode"
	intio "github.com/ezrec/intcode/io"
	"github.com/ezrec/intcode/pipeline"
)

// patch applies ADDR=VALUE,... assignments to prog, growing it as needed.
func patch(prog intcode.Program, pokes string) (patched intcode.Program, err error) {
	patched = prog.Clone()

	for _, poke := range strings.Split(pokes, ",") {
		addr_str, value_str, ok := strings.Cut(strings.TrimSpace(poke), "=")
		if !ok {
			err = intcode.ErrParseCell{Text: poke}
			return
		}

		var addr, value int64
		addr, err = strconv.ParseInt(addr_str, 0, 64)
		if err != nil {
			return
		}
		value, err = strconv.ParseInt(value_str, 0, 64)
		if err != nil {
			return
		}
		if addr < 0 {
			err = intcode.ErrAccess{Address: addr}
			return
		}

		for int64(len(patched)) <= addr {
			patched = append(patched, 0)
		}
		patched[addr] = value
	}

	return
}

// load reads a program from either a wire format or an assembly file.
func load(program string, compile string, verbose bool) (prog intcode.Program, lst *intcode.Listing, err error) {
	switch {
	case len(program) != 0 && len(compile) != 0:
		err = errors.New("only one of -p and -c may be given")
	case len(program) != 0:
		var inf *os.File
		inf, err = os.Open(program)
		if err != nil {
			return
		}
		defer inf.Close()

		prog, err = intcode.ReadProgram(inf)
		if err != nil {
			err = fmt.Errorf("%v: %w", program, err)
		}
	case len(compile) != 0:
		var inf *os.File
		inf, err = os.Open(compile)
		if err != nil {
			return
		}
		defer inf.Close()

		asm := &intcode.Assembler{Verbose: verbose}
		lst, err = asm.Parse(inf)
		if err != nil {
			err = fmt.Errorf("%v: %w", compile, err)
			return
		}
		prog = lst.Program()
	default:
		err = errors.New("one of -p or -c is required")
	}

	return
}

// execute runs a single machine against a tape until it halts.
func execute(m *intcode.Machine, tape intio.Tape) (err error) {
	for {
		var state intcode.State
		state, err = m.Run()
		if err != nil {
			return
		}

		err = tape.Flush(m)
		if err != nil {
			return
		}

		if state == intcode.STATE_TERMINATED {
			return
		}

		err = tape.Feed(m)
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("%w @ %d", intcode.ErrInputStarved, m.Ip)
		}
		if err != nil {
			return
		}
	}
}

func main() {
	var program string
	var compile string
	var save bool
	var input string
	var output string
	var ascii bool
	var pokes string
	var phases string
	var feedback bool
	var search bool
	var verbose bool
	var interactive bool

	flag.StringVar(&program, "p", "", "comma separated program file to run")
	flag.StringVar(&compile, "c", "", "assembly file to compile")
	flag.BoolVar(&save, "s", false, "Write the program to output, do not execute")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.BoolVar(&ascii, "a", false, "ASCII tape instead of decimal")
	flag.StringVar(&pokes, "poke", "", "ADDR=VALUE,... cells to patch before running")
	flag.StringVar(&phases, "phases", "", "comma separated amplifier phases")
	flag.BoolVar(&feedback, "feedback", false, "Run the amplifiers as a feedback loop")
	flag.BoolVar(&search, "search", false, "Search all orderings of the phases")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&interactive, "m", false, "Interactive monitor")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	prog, lst, err := load(program, compile, verbose)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if len(pokes) != 0 {
		prog, err = patch(prog, pokes)
		if err != nil {
			log.Fatalf("-poke %v: %v", pokes, err)
		}
	}

	var ouf io.Writer = os.Stdout
	if output != "-" {
		file, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer file.Close()
		ouf = file
	}

	if save {
		fmt.Fprintln(ouf, prog.String())
		return
	}

	if len(phases) != 0 {
		phase_list, err := intcode.ParseProgram(phases)
		if err != nil {
			log.Fatalf("-phases %v: %v", phases, err)
		}

		if search {
			result, err := pipeline.MaxSignal(prog, phase_list, feedback)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Fprintf(ouf, "%d %v\n", result.Signal, intcode.Program(result.Phases))
			return
		}

		pl := pipeline.New(prog, phase_list)
		pl.Verbose = verbose
		for _, m := range pl.Stages {
			m.Verbose = verbose
		}

		var signal int64
		if feedback {
			signal, err = pl.Feedback(0)
		} else {
			signal, err = pl.Pass(0)
		}
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprintf(ouf, "%d\n", signal)
		return
	}

	if interactive {
		m := intcode.NewMachine(prog)
		m.Verbose = verbose
		err = runMonitor(&monitor{m: m, lst: lst})
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	var inf io.Reader = os.Stdin
	if input != "-" {
		file, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer file.Close()
		inf = file
	}

	var tape intio.Tape
	if ascii {
		tape = &intio.Text{Input: inf, Output: ouf}
	} else {
		tape = &intio.Decimal{Input: inf, Output: ouf}
	}

	m := intcode.NewMachine(prog)
	m.Verbose = verbose

	err = execute(m, tape)
	if err != nil {
		log.Fatal(err)
	}
	if verbose {
		log.Printf("%v", m)
	}
}
