package main

import (
	"os"

	"github.com/aliasadiiii/CompilerProject/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
