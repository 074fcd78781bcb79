package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aliasadiiii/CompilerProject/pkg/compiler"
	"github.com/aliasadiiii/CompilerProject/pkg/parser"
	"github.com/aliasadiiii/CompilerProject/pkg/utils"
)

var (
	outputFile string
	errorsFile string
	showTree   bool
)

// compile: source -> output.txt + errors.txt
var CompileCmd = &cobra.Command{
	Use:   "compile <source>",
	Short: "Compile a C-minus source file into a three-address listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}
		opts, err := compileOptions()
		if err != nil {
			return err
		}

		res := compiler.Compile(src, opts...)

		outPath := utils.OutputPath(outDir, outputFile)
		if err := writeFile(outPath, res.WriteProgram); err != nil {
			return err
		}
		errPath := utils.OutputPath(outDir, errorsFile)
		if err := writeFile(errPath, res.WriteErrors); err != nil {
			return err
		}

		if showTree {
			if err := parser.WriteTree(cmd.OutOrStdout(), res.Tree); err != nil {
				return err
			}
		}

		errCount := len(res.Lexical) + len(res.Syntax) + len(res.Semantic)
		fmt.Fprintf(cmd.OutOrStdout(), "compiled %s: %d instructions -> %s, %d errors -> %s\n",
			args[0], len(res.Program), outPath, errCount, errPath)
		return nil
	},
}

func init() {
	CompileCmd.Flags().StringVarP(&outputFile, "output", "o", "output.txt", "instruction listing file")
	CompileCmd.Flags().StringVarP(&errorsFile, "errors", "e", "errors.txt", "error listing file")
	CompileCmd.Flags().BoolVar(&showTree, "tree", false, "print the parse tree")
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return f.Close()
}
