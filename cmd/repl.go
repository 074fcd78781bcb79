package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/aliasadiiii/CompilerProject/pkg/compiler"
)

const (
	historyFile = ".cminus_history"
	promptMain  = "cminus> "
	promptCont  = "   ...> "
)

var ReplCmd = &cobra.Command{
	Use:   "repl",
	Short: "Compile and run programs typed at a prompt",
	Long: `Type a whole program across several lines and finish it with an empty
line to compile and run it. :listing prints the code of the last program,
:quit exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := compileOptions()
		if err != nil {
			return err
		}
		return repl(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
	},
}

func repl(out, errOut io.Writer, opts []compiler.Option) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	var last *compiler.Result
	for {
		src, ok := readProgram(ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}

		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit":
			return nil
		case ":listing":
			if last == nil {
				fmt.Fprintln(errOut, "no program compiled yet")
				continue
			}
			last.WriteProgram(out)
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			fmt.Fprintln(errOut, "unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		last = compiler.Compile(src, opts...)
		if !last.OK() {
			last.WriteErrors(errOut)
			continue
		}
		if _, err := last.Execute(out, 0); err != nil {
			fmt.Fprintln(errOut, err)
		}
	}
}

// readProgram collects lines up to an empty one. A command on the first line
// is returned at once.
func readProgram(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}
		if strings.TrimSpace(line) == "" {
			return b.String(), true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
}
