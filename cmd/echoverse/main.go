package main

import (
	"os"

	"github.com/msto63/echoverse/cmd/echoverse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
