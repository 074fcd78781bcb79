package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aliasadiiii/CompilerProject/pkg/codegen"
	"github.com/aliasadiiii/CompilerProject/pkg/compiler"
	"github.com/aliasadiiii/CompilerProject/pkg/listing"
	"github.com/aliasadiiii/CompilerProject/pkg/vm"
)

var maxSteps int

var RunCmd = &cobra.Command{
	Use:   "run <source|listing.txt>",
	Short: "Compile a source file, or load an instruction listing, and execute it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := loadProgram(args[0], cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		m := vm.NewMachine(code)
		m.Output = cmd.OutOrStdout()
		m.MaxSteps = maxSteps
		if err := m.Run(); err != nil {
			return fmt.Errorf("run failed for %q: %w", args[0], err)
		}
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "run complete (%s): %d instructions executed, pc=%d\n", args[0], m.Steps, m.PC)
		}
		return nil
	},
}

func init() {
	RunCmd.Flags().IntVar(&maxSteps, "max-steps", vm.DefaultMaxSteps, "stop after this many instructions")
}

// loadProgram reads a .txt file as a listing and compiles anything else.
// Compilation diagnostics go to errOut.
func loadProgram(path string, errOut io.Writer) ([]codegen.Instruction, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		code, err := listing.Read(f)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", path, err)
		}
		return code, nil
	}

	src, err := readSource(path)
	if err != nil {
		return nil, err
	}
	opts, err := compileOptions()
	if err != nil {
		return nil, err
	}
	res := compiler.Compile(src, opts...)
	if !res.OK() {
		if err := res.WriteErrors(errOut); err != nil {
			return nil, fmt.Errorf("writing diagnostics for %s: %w", path, err)
		}
		return nil, fmt.Errorf("compilation of %s failed", path)
	}
	return res.Program, nil
}
