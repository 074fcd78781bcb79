// Package listing reads and writes instruction listings, one instruction per
// line:
//
//	0	(JP,7,,)
//	1	(ASSIGN,#0,202,)
//
// Placeholders are written as "(,,,)".
package listing

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aliasadiiii/CompilerProject/pkg/codegen"
)

// Write prints code in listing format.
func Write(w io.Writer, code []codegen.Instruction) error {
	bw := bufio.NewWriter(w)
	for i, in := range code {
		fmt.Fprintf(bw, "%d\t%s\n", i, in)
	}
	return bw.Flush()
}

// Read parses a listing. Indices must start at 0 and be consecutive; blank
// lines and lines starting with "//" are skipped.
func Read(r io.Reader) ([]codegen.Instruction, error) {
	var code []codegen.Instruction
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := stripComments(sc.Text())
		if raw == "" {
			continue
		}
		idx, in, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, err
		}
		if idx != len(code) {
			return nil, fmt.Errorf("expected instruction %d on line %d, found %d", len(code), lineNo, idx)
		}
		code = append(code, in)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return code, nil
}

// Parse is Read on a string.
func Parse(text string) ([]codegen.Instruction, error) {
	return Read(strings.NewReader(text))
}

func stripComments(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "//") {
		return ""
	}
	return line
}

func parseLine(raw string, lineNo int) (int, codegen.Instruction, error) {
	var in codegen.Instruction

	idxText, body, ok := strings.Cut(raw, "\t")
	if !ok {
		fields := strings.Fields(raw)
		if len(fields) != 2 {
			return 0, in, fmt.Errorf("malformed instruction on line %d: %q", lineNo, raw)
		}
		idxText, body = fields[0], fields[1]
	}
	idx, err := strconv.Atoi(strings.TrimSpace(idxText))
	if err != nil {
		return 0, in, fmt.Errorf("bad index on line %d: %q", lineNo, idxText)
	}

	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
		return 0, in, fmt.Errorf("expected (op,a,b,c) on line %d, got %q", lineNo, body)
	}
	parts := strings.Split(body[1:len(body)-1], ",")
	if len(parts) != 4 {
		return 0, in, fmt.Errorf("expected 4 fields on line %d, got %d", lineNo, len(parts))
	}

	mnemonic := strings.ToUpper(strings.TrimSpace(parts[0]))
	if mnemonic != "" {
		op, ok := codegen.ParseOp(mnemonic)
		if !ok {
			return 0, in, fmt.Errorf("unknown opcode %q on line %d", mnemonic, lineNo)
		}
		in.Op = op
	}
	fields := []*codegen.Operand{&in.A, &in.B, &in.C}
	for i, f := range fields {
		if *f, err = codegen.ParseOperand(parts[i+1]); err != nil {
			return 0, in, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if in.Op == codegen.OpNone && (!in.A.IsNone() || !in.B.IsNone() || !in.C.IsNone()) {
		return 0, in, fmt.Errorf("operands without an opcode on line %d", lineNo)
	}
	return idx, in, nil
}
