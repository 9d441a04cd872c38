package intcode

import (
	"io"
	"iter"
	"strconv"
	"strings"
)

// Program is a sequence of cells in load order.
type Program []int64

// ParseProgram parses the comma separated wire format. Whitespace around
// cells and a trailing newline are ignored.
func ParseProgram(text string) (prog Program, err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		err = ErrProgramEmpty
		return
	}

	words := strings.Split(text, ",")
	prog = make(Program, len(words))
	for n, word := range words {
		word = strings.TrimSpace(word)
		prog[n], err = strconv.ParseInt(word, 10, 64)
		if err != nil {
			prog = nil
			err = ErrParseCell{Index: n, Text: word}
			return
		}
	}

	return
}

// ReadProgram reads and parses a program in the wire format.
func ReadProgram(r io.Reader) (prog Program, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	return ParseProgram(string(data))
}

// String returns the program in the wire format.
func (prog Program) String() string {
	var data []byte
	for n, cell := range prog {
		if n > 0 {
			data = append(data, ',')
		}
		data = strconv.AppendInt(data, cell, 10)
	}
	return string(data)
}

// Clone returns a copy of the program.
func (prog Program) Clone() Program {
	return append(Program(nil), prog...)
}

// Link is a cell of a statement that refers to a label.
type Link struct {
	Index int    // Index of the cell in the statement.
	Label string // Label whose address is added to the cell.
}

// Statement is a line of assembled code with its source location and
// generated cells.
type Statement struct {
	LineNo int
	Ip     int
	Words  []string
	Cells  []int64
	Links  []Link
}

// Listing is the output of the assembler.
type Listing struct {
	Statements []Statement
}

// Debug is the statement covering an address.
type Debug struct {
	*Statement
	Index int
}

// Debug returns the statement that generated the cell at ip.
func (lst *Listing) Debug(ip int64) (dbg Debug) {
	for n, st := range lst.Statements {
		if ip >= int64(st.Ip) && ip < int64(st.Ip+len(st.Cells)) {
			dbg = Debug{
				Statement: &lst.Statements[n],
				Index:     int(ip - int64(st.Ip)),
			}
			break
		}
	}

	return
}

// Cells iterates over every generated cell with its address.
func (lst *Listing) Cells() iter.Seq2[int, int64] {
	return func(yield func(ip int, cell int64) bool) {
		for _, st := range lst.Statements {
			for n, cell := range st.Cells {
				if !yield(st.Ip+n, cell) {
					return
				}
			}
		}
	}
}

// Program returns the assembled cells. Gaps between statements are zero.
func (lst *Listing) Program() (prog Program) {
	for ip, cell := range lst.Cells() {
		for len(prog) <= ip {
			prog = append(prog, 0)
		}
		prog[ip] = cell
	}

	return
}
