package main

import (
	"os"

	"github.com/born-ml/linop/cmd/linop/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
