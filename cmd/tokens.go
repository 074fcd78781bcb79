package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliasadiiii/CompilerProject/pkg/scanner"
)

var TokensCmd = &cobra.Command{
	Use:   "tokens <source>",
	Short: "Print the tokens and lexical errors of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}
		tokens, errs := scanner.Tokenize(src)
		out := cmd.OutOrStdout()
		fmt.Fprint(out, scanner.Listing(tokens))
		if len(errs) > 0 {
			fmt.Fprintln(out)
			fmt.Fprint(out, scanner.ErrorListing(errs))
		}
		return nil
	},
}
