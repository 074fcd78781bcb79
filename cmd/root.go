package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/aliasadiiii/CompilerProject/pkg/compiler"
	"github.com/aliasadiiii/CompilerProject/pkg/grammar"
	"github.com/aliasadiiii/CompilerProject/pkg/utils"
)

var (
	outDir      string
	verbose     bool
	grammarFile string
	firstFile   string
	followFile  string
)

var rootCmd = &cobra.Command{
	Use:   "cminus",
	Short: "cminus compiles C-minus into three-address code",
	Long: `cminus is a one-pass compiler for C-minus. Scanning, parsing and code
generation run token by token; lexical, syntax and semantic errors are
collected and the compilation always runs to the end of the input.

Commands:
  compile  Write the instruction listing and the error listing of a source file
  tokens   Print the tokens and lexical errors of a source file
  run      Compile a source file (or load a .txt listing) and execute it
  repl     Compile and run programs typed at a prompt
`,
	SilenceUsage: true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "dir", "d", ".", "directory for generated files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace every parser step to stderr")
	rootCmd.PersistentFlags().StringVar(&grammarFile, "grammar", "", "grammar rules file (default: built-in C-minus grammar)")
	rootCmd.PersistentFlags().StringVar(&firstFile, "first", "", "FIRST sets file (default: computed)")
	rootCmd.PersistentFlags().StringVar(&followFile, "follow", "", "FOLLOW sets file (default: computed)")

	rootCmd.AddCommand(CompileCmd, TokensCmd, RunCmd, ReplCmd)
}

// compileOptions turns the persistent flags into compiler options.
func compileOptions() ([]compiler.Option, error) {
	var opts []compiler.Option
	if grammarFile != "" {
		g, err := loadGrammar()
		if err != nil {
			return nil, err
		}
		opts = append(opts, compiler.WithGrammar(g))
	}
	if verbose {
		opts = append(opts, compiler.WithTrace(log.New(os.Stderr, "parse: ", 0)))
	}
	return opts, nil
}

func loadGrammar() (*grammar.Grammar, error) {
	rules, err := readSource(grammarFile)
	if err != nil {
		return nil, err
	}
	var first, follow string
	if firstFile != "" {
		if first, err = readSource(firstFile); err != nil {
			return nil, err
		}
	}
	if followFile != "" {
		if follow, err = readSource(followFile); err != nil {
			return nil, err
		}
	}
	g, err := grammar.Load(rules, first, follow)
	if err != nil {
		return nil, fmt.Errorf("grammar %s: %w", grammarFile, err)
	}
	return g, nil
}

func readSource(path string) (string, error) {
	fullPath, _, err := utils.GetPathInfo(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return string(data), nil
}
