package main

import (
	"fmt"
	"os"

	"github.com/aliasadiiii/CompilerProject/pkg/compiler"
	"github.com/aliasadiiii/CompilerProject/pkg/grammar"
	"github.com/aliasadiiii/CompilerProject/pkg/parser"
	"github.com/aliasadiiii/CompilerProject/pkg/scanner"
)

const testSource = `int x;
int add(int a, int b) {
  return a + b;
}
void main(void) {
  x = add(10, 20);
  output(x);
}
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	fmt.Printf("Source:\n%s\n", src)

	// Scan
	tokens, lexErrs := scanner.Tokenize(src)
	fmt.Printf("Tokens (%d)\n", len(tokens))
	fmt.Print(scanner.Listing(tokens))
	if len(lexErrs) > 0 {
		fmt.Println("Lexical errors")
		fmt.Print(scanner.ErrorListing(lexErrs))
	}
	fmt.Println()

	g := grammar.Default()
	fmt.Println("First sets")
	fmt.Print(g.FirstSets())
	fmt.Println("Follow sets")
	fmt.Print(g.FollowSets())
	fmt.Println()

	// Parse and generate
	res := compiler.Compile(src, compiler.WithGrammar(g))

	fmt.Println("Parse tree")
	parser.WriteTree(os.Stdout, res.Tree)
	fmt.Println()

	fmt.Println("Generated code")
	res.WriteProgram(os.Stdout)
	if len(res.Unresolved) > 0 {
		fmt.Println("Unresolved slots", res.Unresolved)
	}
	fmt.Println()

	if !res.OK() {
		fmt.Println("Errors")
		res.WriteErrors(os.Stdout)
		fmt.Println()
	}

	fmt.Print(res.Symbols)
}
