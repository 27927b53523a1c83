package main

import (
	"os"

	"github.com/hornkernel/chck/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
