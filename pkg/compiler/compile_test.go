package compiler

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/aliasadiiii/CompilerProject/pkg/codegen"
	"github.com/aliasadiiii/CompilerProject/pkg/vm"
)

// run compiles src, fails on any diagnostic and returns what the program
// printed.
func run(t *testing.T, src string) []string {
	t.Helper()
	res := Compile(src)
	if !res.OK() {
		var buf bytes.Buffer
		res.WriteErrors(&buf)
		t.Fatalf("compile errors:\n%s", buf.String())
	}
	var out bytes.Buffer
	if _, err := res.Execute(&out, 0); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return strings.Fields(out.String())
}

func TestProgramListing(t *testing.T) {
	src := `void main(void) {
  int a;
  a = 3 + 4 * 2;
  output(a);
}`
	res := Compile(src)
	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %v %v %v", res.Lexical, res.Syntax, res.Semantic)
	}
	want := strings.Join([]string{
		"0\t(JP,5,,)",
		"1\t(ASSIGN,#0,202,)",
		"2\t(PRINT,200,,)",
		"3\t(JP,@201,,)",
		"4\t(JP,13,,)",
		"5\t(ASSIGN,#0,204,)",
		"6\t(MULT,#4,#2,500)",
		"7\t(ADD,#3,500,501)",
		"8\t(ASSIGN,501,205,)",
		"9\t(ASSIGN,205,200,)",
		"10\t(ASSIGN,#12,201,)",
		"11\t(JP,1,,)",
		"12\t(ASSIGN,202,502,)",
	}, "\n") + "\n"

	var buf bytes.Buffer
	if err := res.WriteProgram(&buf); err != nil {
		t.Fatalf("WriteProgram: %v", err)
	}
	if buf.String() != want {
		t.Errorf("listing mismatch\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}

	var errs bytes.Buffer
	if err := res.WriteErrors(&errs); err != nil {
		t.Fatalf("WriteErrors: %v", err)
	}
	if errs.Len() != 0 {
		t.Errorf("WriteErrors() = %q, want empty", errs.String())
	}
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "Arithmetic",
			src: `void main(void) {
  int a;
  a = 3 + 4 * 2;
  output(a);
  output(10 - 3 - 2);
  output(-4 * 2);
  output(3 < 5);
  output(2 == 3);
}`,
			want: []string{"11", "5", "-8", "1", "0"},
		},
		{
			name: "Arrays",
			src: `void main(void) {
  int a[5];
  int i;
  i = 0;
  while (i < 5) {
    a[i] = i * i;
    i = i + 1;
  }
  output(a[3]);
  output(a[4] - a[2]);
}`,
			want: []string{"9", "12"},
		},
		{
			name: "Globals",
			src: `int g;
int h[2];
void main(void) {
  g = 4;
  h[1] = g + 1;
  output(h[1] * g);
}`,
			want: []string{"20"},
		},
		{
			name: "Call",
			src: `int add(int x, int y) {
  return x + y;
}
void main(void) {
  output(add(2, 3));
  output(add(add(1, 1), 10));
}`,
			want: []string{"5", "12"},
		},
		{
			name: "ArrayParameter",
			src: `int sum(int a[], int n) {
  int i;
  int s;
  i = 0;
  s = 0;
  while (i < n) {
    s = s + a[i];
    i = i + 1;
  }
  return s;
}
void main(void) {
  int b[3];
  b[0] = 4;
  b[1] = 5;
  b[2] = 6;
  output(sum(b, 3));
}`,
			want: []string{"15"},
		},
		{
			name: "VoidCall",
			src: `void show(int v) {
  output(v * 2);
}
void main(void) {
  show(4);
  show(5);
}`,
			want: []string{"8", "10"},
		},
		{
			name: "IfElse",
			src: `void main(void) {
  int x;
  x = 7;
  if (x < 5) output(1); else output(2);
  if (x == 7) output(3);
  if (x == 8) output(4);
}`,
			want: []string{"2", "3"},
		},
		{
			name: "DanglingElse",
			src: `void main(void) {
  if (1 == 1) if (1 == 2) output(1); else output(2);
  if (1 == 2) if (1 == 1) output(3); else output(4);
}`,
			want: []string{"2"},
		},
		{
			name: "BreakContinue",
			src: `void main(void) {
  int i;
  i = 0;
  while (i < 10) {
    i = i + 1;
    if (i == 3) continue;
    if (i == 6) break;
    output(i);
  }
  output(i);
}`,
			want: []string{"1", "2", "4", "5", "6"},
		},
		{
			name: "MainReturn",
			src: `void main(void) {
  output(1);
  return;
  output(2);
}`,
			want: []string{"1"},
		},
		{
			name: "NestedScopes",
			src: `void main(void) {
  int x;
  x = 1;
  {
    int x;
    x = 2;
    output(x);
  }
  output(x);
}`,
			want: []string{"2", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, tt.src)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSwitchFallthrough(t *testing.T) {
	const src = `void main(void) {
  int x;
  x = %s;
  switch (x) {
    case 1: output(10);
    case 2: output(20);
    case 3: output(30); break;
    default: output(40);
  }
  output(50);
}`
	tests := []struct {
		x    string
		want []string
	}{
		{"1", []string{"10", "20", "30", "50"}},
		{"2", []string{"20", "30", "50"}},
		{"3", []string{"30", "50"}},
		{"9", []string{"40", "50"}},
	}
	for _, tt := range tests {
		t.Run("x="+tt.x, func(t *testing.T) {
			got := run(t, strings.Replace(src, "%s", tt.x, 1))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSemanticErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"Undefined", "void main(void) { x = 1; }", "1. 'x' is not defined.\n"},
		{"VoidVariable", "void main(void) {\n  void x;\n}", "2. Illegal type of void.\n"},
		{"VoidParameter", "void f(void a) { }\nvoid main(void) { }", "1. Illegal type of void.\n"},
		{"NoMain", "void f(void) { }", "1. main function not found!\n"},
		{"TooManyArgs", "void main(void) { output(1, 2); }", "1. Mismatch in numbers of arguments of 'output'.\n"},
		{"TooFewArgs", "void main(void) { output(); }", "1. Mismatch in numbers of arguments of 'output'.\n"},
		{"FunctionAsValue", "void main(void) { output(main); }", "1. Type mismatch in operands.\n"},
		{"Continue", "void main(void) { continue; }", "1. No 'while' found for 'continue'.\n"},
		{"Break", "void main(void) {\n  break;\n}", "2. No 'while' or 'switch' found for 'break'.\n"},
		{"OnlyFirst", "void main(void) {\n  x = 1;\n  y = 2;\n}", "2. 'x' is not defined.\n"},
		{"ScopeClosed", "void main(void) {\n  { int x; }\n  x = 1;\n}", "3. 'x' is not defined.\n"},
		{"NumberOutOfRange", "void main(void) {\n  output(99999999999999999999);\n}", "2. '99999999999999999999' is out of range.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compile(tt.src)
			if len(res.Lexical) != 0 || len(res.Syntax) != 0 {
				t.Fatalf("unexpected diagnostics: %v %v", res.Lexical, res.Syntax)
			}
			var buf bytes.Buffer
			if err := res.WriteErrors(&buf); err != nil {
				t.Fatalf("WriteErrors: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("errors = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestErrorOrder(t *testing.T) {
	src := `void main(void) {
  output(4 @);
  x = 1;
}`
	res := Compile(src)
	var buf bytes.Buffer
	if err := res.WriteErrors(&buf); err != nil {
		t.Fatalf("WriteErrors: %v", err)
	}
	want := "2. (@, invalid input)\n3. 'x' is not defined.\n"
	if buf.String() != want {
		t.Errorf("errors = %q, want %q", buf.String(), want)
	}
}

func TestSyntaxErrors(t *testing.T) {
	t.Run("MissingNonterminal", func(t *testing.T) {
		src := `int a
void main(void) {
  output(1);
}`
		res := Compile(src)
		want := Diagnostics{{Line: 2, Msg: "Syntax Error! Missing #DeclarationTail"}}
		if !reflect.DeepEqual(res.Syntax, want) {
			t.Errorf("Syntax = %v, want %v", res.Syntax, want)
		}
		if len(res.Semantic) != 0 {
			t.Errorf("Semantic = %v, want none", res.Semantic)
		}

		var out bytes.Buffer
		if _, err := res.Execute(&out, 0); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if out.String() != "1\n" {
			t.Errorf("output = %q, want %q", out.String(), "1\n")
		}
	})

	t.Run("UnexpectedEndOfFile", func(t *testing.T) {
		src := `void main(void) {
  output(1)
}`
		res := Compile(src)
		want := []string{"Syntax Error! Unexpected #}", "Syntax Error! Unexpected EndOfFile"}
		if got := res.Syntax.Messages(); !reflect.DeepEqual(got, want) {
			t.Errorf("Syntax = %v, want %v", got, want)
		}
		if got := res.Syntax.Listing(); got != "3. "+strings.Join(want, " ")+"\n" {
			t.Errorf("Listing() = %q", got)
		}
	})
}

func TestOptions(t *testing.T) {
	res := Compile("void main(void) { output(7); }", WithDataBase(300), WithTempBase(900))
	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %v", res.Semantic)
	}
	if got := res.Program[1].String(); got != "(ASSIGN,#0,302,)" {
		t.Errorf("prelude = %s, want (ASSIGN,#0,302,)", got)
	}
	last := res.Program[len(res.Program)-1]
	if last.Op != codegen.OpAssign || last.B != codegen.Abs(900) {
		t.Errorf("call result = %s, want a copy into 900", last)
	}

	var out bytes.Buffer
	if _, err := res.Execute(&out, 0); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.String() != "7\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestIndependentCompilations(t *testing.T) {
	src := "int f(int a) { return a; }\nvoid main(void) { output(f(3)); }"
	a := Compile(src)
	b := Compile(src)
	if !reflect.DeepEqual(a.Program, b.Program) {
		t.Errorf("two compilations of the same source differ")
	}
	if len(a.Tree) == 0 || a.Tree[0].Symbol != "Program" || a.Tree[0].Depth != 0 {
		t.Errorf("parse tree should start at Program, got %v", a.Tree)
	}
	if !strings.Contains(a.Symbols, "main") {
		t.Errorf("symbol dump lacks main:\n%s", a.Symbols)
	}
}

func TestExecuteStepLimit(t *testing.T) {
	res := Compile("void main(void) { while (1 == 1) { } }")
	if !res.OK() {
		t.Fatalf("unexpected diagnostics")
	}
	_, err := res.Execute(&bytes.Buffer{}, 1000)
	if !errors.Is(err, vm.ErrStepLimit) {
		t.Errorf("Execute() error = %v, want ErrStepLimit", err)
	}
}

func TestEmptyMain(t *testing.T) {
	res := Compile("void main(void) {\n}\n")
	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %v %v %v", res.Lexical, res.Syntax, res.Semantic)
	}
	// 0: jump to main, 1-3: output, 4: skip over main, 5: main entry
	want := codegen.Instruction{Op: codegen.OpJp, A: codegen.Abs(5)}
	if res.Program[0] != want {
		t.Errorf("instruction 0 = %s, want %s", res.Program[0], want)
	}
}

func TestScopeReuse(t *testing.T) {
	src := `void main(void) {
  int x;
  { int x; x = 1; }
  { int x; x = 2; }
  x = 3;
}`
	res := Compile(src)
	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %v", res.Semantic)
	}
	got := []string{res.Program[6].String(), res.Program[7].String(), res.Program[8].String()}
	want := []string{"(ASSIGN,#1,206,)", "(ASSIGN,#2,207,)", "(ASSIGN,#3,205,)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("assignments = %v, want %v", got, want)
	}
}

func TestArgumentMismatchSkipsCall(t *testing.T) {
	src := "int f(int a, int b) { return a; }\nvoid main(void) { f(1); }"
	res := Compile(src)
	want := []string{"Mismatch in numbers of arguments of 'f'."}
	if got := res.Semantic.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Semantic = %v, want %v", got, want)
	}
	for i, in := range res.Program {
		if in.Op == codegen.OpJp && in.A == codegen.Abs(5) {
			t.Errorf("instruction %d jumps into f", i)
		}
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	res := Compile("void main(void) { break; }")
	if len(res.Semantic) != 1 {
		t.Fatalf("Semantic = %v, want one error", res.Semantic)
	}
	// nothing after main's entry
	if len(res.Program) != 6 {
		var buf bytes.Buffer
		res.WriteProgram(&buf)
		t.Errorf("program has %d instructions, want 6:\n%s", len(res.Program), buf.String())
	}
	// the jump to main and main's skip jump
	if !reflect.DeepEqual(res.Unresolved, []int{0, 4}) {
		t.Errorf("Unresolved = %v, want [0 4]", res.Unresolved)
	}
}

func TestUnterminatedCommentListing(t *testing.T) {
	res := Compile("void main(void) {\n}\n/* note\nline two\n")
	if len(res.Lexical) != 1 || res.Lexical[0].Line != 3 || res.Lexical[0].Msg != "(/, invalid input)" {
		t.Errorf("Lexical = %v", res.Lexical)
	}
	var buf bytes.Buffer
	if err := res.WriteErrors(&buf); err != nil {
		t.Fatalf("WriteErrors: %v", err)
	}
	for _, line := range strings.Split(buf.String(), "\n") {
		if line == "" {
			continue
		}
		n := strings.IndexByte(line, '.')
		if n < 1 || strings.Trim(line[:n], "0123456789") != "" || !strings.HasPrefix(line[n:], ". ") {
			t.Errorf("listing line %q lacks a line number", line)
		}
	}
}
