// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package intcode

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/intcode/internal"
)

// Macro is a macro body collected between .macro and .endm.
type Macro struct {
	Start  int      // Source line of the first body line.
	Params []string // Parameter names, bound as equates on expansion.
	Body   []string // Body lines, without comments.
}

// Equates defined before every parse.
var sysEquate = map[string]string{
	"LINENO":         "0",
	"OP_ADD":         strconv.Itoa(int(OP_ADD)),
	"OP_MUL":         strconv.Itoa(int(OP_MUL)),
	"OP_IN":          strconv.Itoa(int(OP_IN)),
	"OP_OUT":         strconv.Itoa(int(OP_OUT)),
	"OP_JT":          strconv.Itoa(int(OP_JT)),
	"OP_JF":          strconv.Itoa(int(OP_JF)),
	"OP_LT":          strconv.Itoa(int(OP_LT)),
	"OP_EQ":          strconv.Itoa(int(OP_EQ)),
	"OP_ARB":         strconv.Itoa(int(OP_ARB)),
	"OP_HALT":        strconv.Itoa(int(OP_HALT)),
	"MODE_POSITION":  strconv.Itoa(int(MODE_POSITION)),
	"MODE_IMMEDIATE": strconv.Itoa(int(MODE_IMMEDIATE)),
	"MODE_RELATIVE":  strconv.Itoa(int(MODE_RELATIVE)),
}

// mnemonicMap maps instruction names to opcodes.
var mnemonicMap = map[string]Opcode{
	"add":  OP_ADD,
	"mul":  OP_MUL,
	"in":   OP_IN,
	"out":  OP_OUT,
	"jt":   OP_JT,
	"jf":   OP_JF,
	"lt":   OP_LT,
	"eq":   OP_EQ,
	"arb":  OP_ARB,
	"halt": OP_HALT,
}

// Character literal escapes, after the backslash.
var charEscapes = map[byte]byte{
	'\\': '\\',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	's':  ' ',
	'e':  0x1b,
}

var (
	charRe  = regexp.MustCompile(`'\\?[^']'`)
	exprRe  = regexp.MustCompile(`\$\([^\$]*\)`)
	labelRe = regexp.MustCompile(`^[A-Za-z_.@][A-Za-z0-9_.@]*$`)
)

// Assembler is a single pass macro assembler for Intcode. Label
// references are resolved once the whole input has been read.
type Assembler struct {
	Verbose   bool              // If set, logs each source line.
	Statement []Statement       // Statements generated so far.
	Label     map[string]int    // Label addresses.
	Equate    map[string]string // Equates in scope.
	Macro     map[string]*Macro // Macro definitions.

	predefine map[string]string
	expansion int    // Count of macro expansions, for local labels.
	defining  *Macro // Macro whose body is being collected.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = make(map[string]string)
	}
	asm.predefine[equ] = value
}

func (asm *Assembler) reset() {
	asm.Statement = asm.Statement[:0]
	asm.Label = make(map[string]int)
	asm.Macro = make(map[string]*Macro)
	asm.Equate = maps.Collect(internal.IterSeq2Concat(maps.All(sysEquate), maps.All(asm.predefine)))
	asm.expansion = 0
	asm.defining = nil
}

// Parse assembles the source in input.
func (asm *Assembler) Parse(input io.Reader) (lst *Listing, err error) {
	var line string
	var lineno int

	defer func() {
		if err == nil {
			return
		}
		if _, ok := err.(ErrSyntax); !ok {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.reset()

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lineno++
		text := scanner.Text()

		if asm.Verbose {
			log.Printf("%v: %v", lineno, text)
		}

		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)

		var collected bool
		collected, err = asm.collect(line, lineno)
		if err != nil {
			return
		}
		if collected {
			continue
		}

		err = asm.statement(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if asm.defining != nil {
		err = ErrMacroLonely
		return
	}

	for n := range asm.Statement {
		st := &asm.Statement[n]
		err = asm.link(st)
		if err != nil {
			lineno = st.LineNo
			line = strings.Join(st.Words, " ")
			return
		}
	}

	lst = &Listing{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// collect handles .macro and .endm, and gathers the body lines between
// them. Returns true if the line was consumed.
func (asm *Assembler) collect(line string, lineno int) (collected bool, err error) {
	words := strings.Fields(line)

	var directive string
	if len(words) > 0 {
		directive = words[0]
	}

	switch {
	case directive == ".macro":
		collected = true
		switch {
		case asm.defining != nil:
			err = ErrMacroNesting
		case len(words) < 2:
			err = ErrMacroSyntax
		case asm.Macro[words[1]] != nil:
			err = ErrMacroDuplicate
		default:
			asm.defining = &Macro{Start: lineno + 1, Params: words[2:]}
			asm.Macro[words[1]] = asm.defining
		}
	case directive == ".endm":
		collected = true
		if asm.defining == nil {
			err = ErrMacroLonelyEndm
		}
		asm.defining = nil
	case asm.defining != nil:
		collected = true
		asm.defining.Body = append(asm.defining.Body, line)
	}

	return
}

// statement assembles a single source line.
func (asm *Assembler) statement(line string, lineno int) (err error) {
	asm.Equate["LINENO"] = strconv.Itoa(lineno)

	line, err = asm.expand(line)
	if err != nil {
		return
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ NAME VALUE
	if words[0] == ".equ" {
		err = asm.equate(words[1:])
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	words, err = asm.labels(words)
	if err != nil || len(words) == 0 {
		return
	}

	macro, ok := asm.Macro[words[0]]
	if ok {
		err = asm.invoke(words[0], macro, words[1:])
		return
	}

	err = asm.emit(words, lineno)
	return
}

// expand substitutes the values of character literals and $(...)
// expressions.
func (asm *Assembler) expand(line string) (expanded string, err error) {
	expanded = charRe.ReplaceAllStringFunc(line, func(quoted string) string {
		body := quoted[1 : len(quoted)-1]
		switch {
		case len(body) == 2 && body[0] == '\\':
			ch, ok := charEscapes[body[1]]
			if !ok {
				return quoted
			}
			return strconv.Itoa(int(ch))
		case len(body) == 1:
			return strconv.Itoa(int(body[0]))
		default:
			return quoted
		}
	})

	expanded = exprRe.ReplaceAllStringFunc(expanded, func(call string) string {
		value, eval_err := asm.evaluate(call[2 : len(call)-1])
		if eval_err != nil && err == nil {
			err = eval_err
		}
		return strconv.FormatInt(value, 10)
	})

	return
}

// evaluate runs expr through starlark, with every numeric equate
// predeclared.
func (asm *Assembler) evaluate(expr string) (value int64, err error) {
	globals := starlark.StringDict{}
	for name, text := range asm.Equate {
		number, num_err := asm.valueOf(text)
		if num_err != nil {
			// Operand or label equates have no numeric value.
			continue
		}
		globals[name] = starlark.MakeInt64(number)
	}

	thread := &starlark.Thread{Name: "expr"}
	result, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, "expr", "rc="+expr+"\n", globals)
	if err != nil {
		return
	}

	rc, ok := result["rc"].(starlark.Int)
	if ok {
		value, ok = rc.Int64()
	}
	if !ok {
		err = ErrParseExpression(expr)
	}

	return
}

func (asm *Assembler) equate(args []string) (err error) {
	if len(args) != 2 {
		err = ErrEquateSyntax
		return
	}

	_, ok := asm.Equate[args[0]]
	if ok {
		err = ErrEquateDuplicate
		return
	}

	asm.Equate[args[0]] = args[1]
	return
}

// labels defines the leading NAME: words at the current address, and
// returns the remaining words.
func (asm *Assembler) labels(words []string) (rest []string, err error) {
	rest = words
	for len(rest) > 0 && strings.HasSuffix(rest[0], ":") {
		name := strings.TrimSuffix(rest[0], ":")
		_, ok := asm.Label[name]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[name] = asm.currentIp()
		rest = rest[1:]
	}

	return
}

// invoke expands a macro with its arguments bound as equates. Every '@' in
// the body becomes a prefix unique to this expansion.
func (asm *Assembler) invoke(name string, macro *Macro, args []string) (err error) {
	if len(args) != len(macro.Params) {
		err = ErrMacroSyntax
		return
	}

	saved := maps.Clone(asm.Equate)
	defer func() { asm.Equate = saved }()

	for n, param := range macro.Params {
		asm.Equate[param] = args[n]
	}

	asm.expansion++
	prefix := fmt.Sprintf("%v_%v_", name, asm.expansion)

	for n, body := range macro.Body {
		lineno := macro.Start + n
		body = strings.ReplaceAll(body, "@", prefix)

		err = asm.statement(body, lineno)
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: body, Err: ErrMacro{Macro: name, Line: lineno, Err: err}}
			return
		}
	}

	return
}

// currentIp gets the address of the next generated cell.
func (asm *Assembler) currentIp() int {
	if len(asm.Statement) == 0 {
		return 0
	}

	last := asm.Statement[len(asm.Statement)-1]

	return last.Ip + len(last.Cells)
}

// alias rewrites the shorthand instructions.
func alias(words []string) []string {
	switch {
	case words[0] == "hlt" && len(words) == 1:
		return []string{"halt"}
	case (words[0] == "jump" || words[0] == "jmp") && len(words) == 2:
		return []string{"jt", "1", words[1]}
	case words[0] == "mov" && len(words) == 3:
		return []string{"add", words[1], "0", words[2]}
	}

	return words
}

// emit generates the cells of an instruction or data statement.
func (asm *Assembler) emit(source []string, lineno int) (err error) {
	st := Statement{LineNo: lineno, Ip: asm.currentIp(), Words: source}

	words := alias(source)
	if words[0] == "data" {
		err = asm.data(&st, words[1:])
	} else {
		err = asm.instruction(&st, words)
	}
	if err != nil {
		return
	}

	asm.Statement = append(asm.Statement, st)
	return
}

func (asm *Assembler) data(st *Statement, values []string) (err error) {
	if len(values) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	for _, word := range values {
		var mode Mode
		mode, err = asm.param(st, word, PARAM_READ)
		if err != nil {
			return
		}
		if mode != MODE_IMMEDIATE {
			err = ErrOperandInvalid
			return
		}
	}

	return
}

func (asm *Assembler) instruction(st *Statement, words []string) (err error) {
	op, ok := mnemonicMap[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	params := op.Params()
	switch args := len(words) - 1; {
	case args < len(params):
		err = ErrOpcodeValueMissing
		return
	case args > len(params):
		err = ErrOpcodeExtraArgs
		return
	}

	// Instruction cell, encoded once the modes are known.
	st.Cells = append(st.Cells, 0)

	modes := make([]Mode, len(params))
	for n, param := range params {
		modes[n], err = asm.param(st, words[n+1], param)
		if err != nil {
			return
		}
	}

	st.Cells[0] = int64(MakeCode(op, modes...))
	return
}

// param appends the cell of an operand to st, and a link if it names a
// label.
func (asm *Assembler) param(st *Statement, word string, param Param) (mode Mode, err error) {
	mode, value, label, err := asm.operand(word, param)
	if err != nil {
		return
	}

	if len(label) != 0 {
		st.Links = append(st.Links, Link{Index: len(st.Cells), Label: label})
	}
	st.Cells = append(st.Cells, value)

	return
}

// operand decodes a parameter word into its addressing mode and value.
// Label references are returned unresolved, with a zero value.
func (asm *Assembler) operand(word string, param Param) (mode Mode, value int64, label string, err error) {
	inner := word
	switch {
	case strings.HasPrefix(word, "rb[") && strings.HasSuffix(word, "]"):
		mode = MODE_RELATIVE
		inner = word[3 : len(word)-1]
	case strings.HasPrefix(word, "[") && strings.HasSuffix(word, "]"):
		mode = MODE_POSITION
		inner = word[1 : len(word)-1]
	default:
		mode = MODE_IMMEDIATE
		if param == PARAM_WRITE {
			err = ErrOperandWrite
			return
		}
	}

	equate, ok := asm.Equate[inner]
	if ok {
		inner = equate
	}

	switch {
	case len(inner) == 0:
		err = ErrOperandInvalid
	case labelRe.MatchString(inner):
		if mode == MODE_RELATIVE {
			err = ErrOperandInvalid
			return
		}
		label = inner
	default:
		value, err = asm.valueOf(inner)
	}

	return
}

// valueOf parses a numeric word. A leading '~' inverts the bits.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	text, invert := strings.CutPrefix(word, "~")

	if strings.HasPrefix(text, "'") {
		// Character literals are expanded before this.
		err = ErrParseCharacter(strings.Trim(text, "'"))
		return
	}

	value, err = strconv.ParseInt(text, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = ^value
	}

	return
}

// link adds the address of each referenced label to its cell.
func (asm *Assembler) link(st *Statement) (err error) {
	for _, link := range st.Links {
		ip, ok := asm.Label[link.Label]
		if !ok {
			err = ErrLabelMissing(link.Label)
			return
		}
		st.Cells[link.Index] += int64(ip)
	}

	return
}
